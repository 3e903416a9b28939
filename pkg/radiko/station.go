package radiko

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// Station is one broadcaster in an area.
type Station struct {
	ID            string
	Name          string
	ASCIIName     string
	Ruby          string
	AreaFree      bool
	TimeFree      bool
	Logos         []Logo
	Banner        string
	Href          string
	SimulMaxDelay uint32
	TFMaxDelay    uint32
}

// Logo is a station logo asset.
type Logo struct {
	Width  uint32
	Height uint32
	Align  string
	URL    string
}

// Stations is the station list of one area.
type Stations struct {
	AreaID   string
	AreaName string
	Data     []Station
}

// Region is the nationwide station catalog, grouped by broadcast region.
type Region struct {
	Groups []RegionStations
}

// RegionStations is one region's group of stations.
type RegionStations struct {
	RegionID   string
	RegionName string
	ASCIIName  string
	Stations   []RegionStation
}

// RegionStation is a station entry of the nationwide catalog. Unlike the
// per-area list, each entry names its home area.
type RegionStation struct {
	Station
	AreaID string
}

type stationListXML struct {
	XMLName  xml.Name     `xml:"stations"`
	AreaID   string       `xml:"area_id,attr"`
	AreaName string       `xml:"area_name,attr"`
	Stations []stationXML `xml:"station"`
}

type stationXML struct {
	ID            string    `xml:"id"`
	Name          string    `xml:"name"`
	ASCIIName     string    `xml:"ascii_name"`
	Ruby          string    `xml:"ruby"`
	AreaFree      int       `xml:"areafree"`
	TimeFree      int       `xml:"timefree"`
	Logos         []logoXML `xml:"logo"`
	Banner        string    `xml:"banner"`
	Href          string    `xml:"href"`
	SimulMaxDelay uint32    `xml:"simul_max_delay"`
	TFMaxDelay    uint32    `xml:"tf_max_delay"`
}

type logoXML struct {
	Width  uint32 `xml:"width,attr"`
	Height uint32 `xml:"height,attr"`
	Align  string `xml:"align,attr"`
	URL    string `xml:",chardata"`
}

type regionXML struct {
	XMLName xml.Name            `xml:"region"`
	Groups  []regionStationsXML `xml:"stations"`
}

type regionStationsXML struct {
	ASCIIName  string             `xml:"ascii_name,attr"`
	RegionID   string             `xml:"region_id,attr"`
	RegionName string             `xml:"region_name,attr"`
	Stations   []regionStationXML `xml:"station"`
}

type regionStationXML struct {
	stationXML
	AreaID string `xml:"area_id"`
}

func (x stationListXML) toModel() Stations {
	out := Stations{
		AreaID:   x.AreaID,
		AreaName: x.AreaName,
		Data:     make([]Station, 0, len(x.Stations)),
	}
	for _, s := range x.Stations {
		out.Data = append(out.Data, s.toModel())
	}
	return out
}

func (x stationXML) toModel() Station {
	logos := make([]Logo, 0, len(x.Logos))
	for _, l := range x.Logos {
		logos = append(logos, Logo(l))
	}
	return Station{
		ID:            x.ID,
		Name:          x.Name,
		ASCIIName:     x.ASCIIName,
		Ruby:          x.Ruby,
		AreaFree:      x.AreaFree == 1,
		TimeFree:      x.TimeFree == 1,
		Logos:         logos,
		Banner:        x.Banner,
		Href:          x.Href,
		SimulMaxDelay: x.SimulMaxDelay,
		TFMaxDelay:    x.TFMaxDelay,
	}
}

func (x regionXML) toModel() Region {
	out := Region{Groups: make([]RegionStations, 0, len(x.Groups))}
	for _, g := range x.Groups {
		stations := make([]RegionStation, 0, len(g.Stations))
		for _, s := range g.Stations {
			stations = append(stations, RegionStation{
				Station: s.stationXML.toModel(),
				AreaID:  s.AreaID,
			})
		}
		out.Groups = append(out.Groups, RegionStations{
			RegionID:   g.RegionID,
			RegionName: g.RegionName,
			ASCIIName:  g.ASCIIName,
			Stations:   stations,
		})
	}
	return out
}

// fetchStations retrieves and maps the station list for an area.
func fetchStations(ctx context.Context, client *http.Client, url string) (Stations, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Stations{}, fmt.Errorf("building station list request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Stations{}, fmt.Errorf("fetching station list: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Stations{}, fmt.Errorf("reading station list: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Stations{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var list stationListXML
	if err := xml.Unmarshal(body, &list); err != nil {
		return Stations{}, fmt.Errorf("decoding station list: %w", err)
	}

	return list.toModel(), nil
}

// fetchRegions retrieves and maps the nationwide region catalog.
func fetchRegions(ctx context.Context, client *http.Client, url string) (Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Region{}, fmt.Errorf("building region list request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Region{}, fmt.Errorf("fetching region list: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Region{}, fmt.Errorf("reading region list: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Region{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var region regionXML
	if err := xml.Unmarshal(body, &region); err != nil {
		return Region{}, fmt.Errorf("decoding region list: %w", err)
	}

	return region.toModel(), nil
}
