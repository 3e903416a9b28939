package radiko

import (
	"fmt"
	"net/url"
)

const (
	defaultBaseURL    = "https://radiko.jp"
	defaultAPIBaseURL = "https://api.radiko.jp"

	// The playlist-create hosts are the most volatile part of the service
	// contract; radiko has moved them between revisions of the official
	// player. The "f" host accepts area-free sessions, the "c" host only
	// in-area ones.
	defaultStreamBaseURL         = "https://si-c-radiko.smartstream.ne.jp"
	defaultStreamAreaFreeBaseURL = "https://si-f-radiko.smartstream.ne.jp"

	// Fixed playlist query parameters observed from the official player.
	playlistLookahead  = "15"
	playlistStreamType = "b"
)

// Endpoints holds every URL the client talks to. The zero value is not
// usable; start from DefaultEndpoints. Tests point the fields at stub
// servers.
type Endpoints struct {
	AreaURL       string
	AuthKeyURL    string
	Auth1URL      string
	Auth2URL      string
	LoginURL      string
	LoginCheckURL string

	StreamBaseURL         string
	StreamAreaFreeBaseURL string

	StationListURL   string // takes the area ID
	RegionFullURL    string
	NowOnAirURL      string // takes the area ID
	WeeklyProgramURL string // takes the station ID
	ProgramSearchURL string
}

// DefaultEndpoints returns the service contract as observed at the time of
// writing.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AreaURL:       defaultBaseURL + "/area/",
		AuthKeyURL:    defaultBaseURL + "/apps/js/playerCommon.js",
		Auth1URL:      defaultBaseURL + "/v2/api/auth1",
		Auth2URL:      defaultBaseURL + "/v2/api/auth2",
		LoginURL:      defaultBaseURL + "/api/member/login",
		LoginCheckURL: defaultBaseURL + "/ap/member/webapi/v2/member/login/check",

		StreamBaseURL:         defaultStreamBaseURL,
		StreamAreaFreeBaseURL: defaultStreamAreaFreeBaseURL,

		StationListURL:   defaultBaseURL + "/v3/station/list/%s.xml",
		RegionFullURL:    defaultBaseURL + "/v3/station/region/full.xml",
		NowOnAirURL:      defaultAPIBaseURL + "/program/v3/now/%s.xml",
		WeeklyProgramURL: defaultAPIBaseURL + "/program/v3/weekly/%s.xml",
		ProgramSearchURL: defaultBaseURL + "/v3/api/program/search",
	}
}

// PlaylistCreateURL builds the playlist-create URL for a station. The host
// depends on whether the session is area-free; the query shape is fixed and
// kept in the exact parameter order the official player sends.
func (e Endpoints) PlaylistCreateURL(stationID, lsid string, areaFree bool) string {
	base := e.StreamBaseURL
	if areaFree {
		base = e.StreamAreaFreeBaseURL
	}

	return fmt.Sprintf("%s/so/playlist.m3u8?station_id=%s&l=%s&lsid=%s&type=%s",
		base, url.QueryEscape(stationID), playlistLookahead, lsid, playlistStreamType)
}

func (e Endpoints) stationListURL(areaID string) string {
	return fmt.Sprintf(e.StationListURL, areaID)
}

func (e Endpoints) nowOnAirURL(areaID string) string {
	return fmt.Sprintf(e.NowOnAirURL, areaID)
}

func (e Endpoints) weeklyProgramURL(stationID string) string {
	return fmt.Sprintf(e.WeeklyProgramURL, stationID)
}
