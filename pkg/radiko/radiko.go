package radiko

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Config configures a Client. The zero value negotiates an anonymous
// session against the default endpoints.
type Config struct {
	// Endpoints overrides the service URLs; zero means DefaultEndpoints.
	Endpoints Endpoints

	// Credentials, when set, performs a member login before the handshake
	// and unlocks area-free stream resolution. They are retained by the
	// Client only to support Refresh.
	Credentials *Credentials
}

// Client is the entry point of the package. It negotiates a Session on
// construction and holds it behind an atomic pointer: Refresh swaps in a
// new Session without disturbing operations still running on the old one.
type Client struct {
	endpoints  Endpoints
	negotiator *Negotiator
	creds      *Credentials
	logger     *slog.Logger

	session atomic.Pointer[Session]
}

// New negotiates a session and returns a ready Client. A negotiation
// failure means no session could be started; there is no partial state to
// fall back to.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	endpoints := cfg.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}

	c := &Client{
		endpoints:  endpoints,
		negotiator: NewNegotiator(endpoints, logger),
		creds:      cfg.Credentials,
		logger:     logger.With("module", "radiko"),
	}

	sess, err := c.negotiator.Negotiate(ctx, c.creds)
	if err != nil {
		return nil, fmt.Errorf("negotiating session: %w", err)
	}
	c.session.Store(sess)

	c.logger.Info("session established", "area", sess.AreaID, "area_free", sess.AreaFree)

	return c, nil
}

// Session returns the current session snapshot.
func (c *Client) Session() *Session {
	return c.session.Load()
}

// Endpoints returns the service URLs this client talks to.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Refresh re-runs the full negotiation with the original credentials and
// swaps the new session in. Nothing is reused from the old session; area,
// token and lsid are all recomputed. Callers already holding the old
// snapshot keep using it until they ask for the session again.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	sess, err := c.negotiator.Negotiate(ctx, c.creds)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	c.session.Store(sess)

	c.logger.Info("session refreshed", "area", sess.AreaID)

	return sess, nil
}

// StreamURL returns the playlist-create URL for a station under the
// current session.
func (c *Client) StreamURL(stationID string) string {
	return ResolveStreamURL(c.endpoints, c.Session(), stationID)
}

// ResolveStream runs the full resolution pipeline for a station: build the
// playlist URL, fetch the master playlist, extract the media playlist URI.
// Failures here are per-station and do not invalidate the session.
func (c *Client) ResolveStream(ctx context.Context, stationID string) (string, error) {
	master, err := FetchMasterPlaylist(ctx, c.endpoints, c.Session(), stationID)
	if err != nil {
		return "", err
	}
	return ExtractMediaPlaylistURI(master)
}

// Stations lists the stations of the session's area.
func (c *Client) Stations(ctx context.Context) (Stations, error) {
	sess := c.Session()
	return fetchStations(ctx, sess.HTTPClient(), c.endpoints.stationListURL(sess.AreaID))
}

// Regions returns the nationwide station catalog grouped by region.
func (c *Client) Regions(ctx context.Context) (Region, error) {
	return fetchRegions(ctx, c.Session().HTTPClient(), c.endpoints.RegionFullURL)
}

// NowOnAir returns the programs currently on air in the session's area.
func (c *Client) NowOnAir(ctx context.Context) ([]StationPrograms, error) {
	sess := c.Session()
	return fetchProgramGuide(ctx, sess.HTTPClient(), c.endpoints.nowOnAirURL(sess.AreaID))
}

// WeeklyPrograms returns a station's program guide for the week.
func (c *Client) WeeklyPrograms(ctx context.Context, stationID string) ([]StationPrograms, error) {
	return fetchProgramGuide(ctx, c.Session().HTTPClient(), c.endpoints.weeklyProgramURL(stationID))
}

// SearchPrograms queries the program guide search.
func (c *Client) SearchPrograms(ctx context.Context, cond SearchCondition) (SearchResults, error) {
	return searchPrograms(ctx, c.Session().HTTPClient(), c.endpoints.ProgramSearchURL, cond)
}
