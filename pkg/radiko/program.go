package radiko

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// SearchFilter narrows a program search by air time.
type SearchFilter string

const (
	FilterLive     SearchFilter = "future"
	FilterAll      SearchFilter = ""
	FilterTimeFree SearchFilter = "past"
)

// SearchCondition is the query for the program search endpoint. Zero-value
// fields are omitted from the query. Pagination is intentionally not
// modelled; only the first page is fetched.
type SearchCondition struct {
	Keys       []string
	Filter     SearchFilter
	StartDay   string
	EndDay     string
	RowLimit   int
	AreaIDs    []string
	StationIDs []string
	CurAreaID  string
}

// NewSearchCondition returns a condition for the given keywords with the
// defaults the official player uses: live programs only, 50 rows.
func NewSearchCondition(keys ...string) SearchCondition {
	return SearchCondition{
		Keys:     keys,
		Filter:   FilterLive,
		RowLimit: 50,
	}
}

func (c SearchCondition) queryParams() url.Values {
	q := url.Values{}
	for _, k := range c.Keys {
		q.Add("key", k)
	}
	for _, s := range c.StationIDs {
		q.Add("station_id", s)
	}
	for _, a := range c.AreaIDs {
		q.Add("area_id", a)
	}
	if c.CurAreaID != "" {
		q.Set("cur_area_id", c.CurAreaID)
	}
	if c.StartDay != "" {
		q.Set("start_day", c.StartDay)
	}
	if c.EndDay != "" {
		q.Set("end_day", c.EndDay)
	}
	if c.Filter != FilterAll {
		q.Set("filter", string(c.Filter))
	}
	if c.RowLimit > 0 {
		q.Set("row_limit", strconv.Itoa(c.RowLimit))
	}
	return q
}

// SearchResult is one program returned by the search endpoint.
type SearchResult struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ProgramDate string `json:"program_date"`
	ProgramURL  string `json:"program_url"`
	StationID   string `json:"station_id"`
	Performer   string `json:"performer"`
	Title       string `json:"title"`
	Info        string `json:"info"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Img         string `json:"img"`
}

// SearchResults is the search response payload.
type SearchResults struct {
	Data []SearchResult `json:"data"`
}

// Program is one entry of a station program guide.
type Program struct {
	ID        string
	From      string
	To        string
	Title     string
	URL       string
	Desc      string
	Info      string
	Performer string
	Img       string
}

// StationPrograms is the program guide of one station.
type StationPrograms struct {
	StationID   string
	StationName string
	Programs    []Program
}

type programGuideXML struct {
	XMLName  xml.Name            `xml:"radiko"`
	Stations []programStationXML `xml:"stations>station"`
}

type programStationXML struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name"`
	Programs []programXML `xml:"progs>prog"`
}

type programXML struct {
	ID        string `xml:"id,attr"`
	From      string `xml:"ft,attr"`
	To        string `xml:"to,attr"`
	Title     string `xml:"title"`
	URL       string `xml:"url"`
	Desc      string `xml:"desc"`
	Info      string `xml:"info"`
	Performer string `xml:"pfm"`
	Img       string `xml:"img"`
}

func (x programGuideXML) toModel() []StationPrograms {
	out := make([]StationPrograms, 0, len(x.Stations))
	for _, s := range x.Stations {
		programs := make([]Program, 0, len(s.Programs))
		for _, p := range s.Programs {
			programs = append(programs, Program(p))
		}
		out = append(out, StationPrograms{
			StationID:   s.ID,
			StationName: s.Name,
			Programs:    programs,
		})
	}
	return out
}

// searchPrograms queries the program search endpoint. A condition without
// keywords is rejected locally; the service answers such queries with an
// unbounded result set.
func searchPrograms(ctx context.Context, client *http.Client, endpoint string, cond SearchCondition) (SearchResults, error) {
	if len(cond.Keys) == 0 {
		return SearchResults{}, fmt.Errorf("search condition requires at least one keyword")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+cond.queryParams().Encode(), nil)
	if err != nil {
		return SearchResults{}, fmt.Errorf("building program search request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return SearchResults{}, fmt.Errorf("searching programs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResults{}, fmt.Errorf("reading program search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return SearchResults{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var results SearchResults
	if err := json.Unmarshal(body, &results); err != nil {
		return SearchResults{}, fmt.Errorf("decoding program search response: %w", err)
	}

	return results, nil
}

// fetchProgramGuide retrieves and maps a program guide document (now on
// air or weekly).
func fetchProgramGuide(ctx context.Context, client *http.Client, url string) ([]StationPrograms, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building program guide request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching program guide: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading program guide: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var guide programGuideXML
	if err := xml.Unmarshal(body, &guide); err != nil {
		return nil, fmt.Errorf("decoding program guide: %w", err)
	}

	return guide.toModel(), nil
}
