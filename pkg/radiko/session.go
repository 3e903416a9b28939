package radiko

import (
	"net/http"
)

// Session is the immutable record of one successful negotiation. It is
// never mutated after construction; refreshing produces a new Session and
// callers swap their reference. Holders of an old Session keep a
// consistent, if possibly expired, view.
//
// The service exposes no token TTL; expiry is detected reactively when an
// authenticated request fails.
type Session struct {
	// AreaID is the detected region, e.g. "JP13".
	AreaID string

	// AuthToken is the opaque server-issued token from auth1, confirmed by
	// auth2. It rides along as a default header on every request made
	// through HTTPClient.
	AuthToken Secret

	// LSID is the locally generated stream identifier asserted to the
	// playlist endpoint. It is client-invented, not server-issued.
	LSID string

	// AreaFree reports whether a member login preceded the handshake,
	// unlocking stream resolution outside the detected area.
	AreaFree bool

	client *http.Client
}

// HTTPClient returns the authenticated transport for this session: the
// auth token is injected as a default header, and the member login cookie
// (if any) rides in the jar.
func (s *Session) HTTPClient() *http.Client { return s.client }

// authTransport injects the auth token into every outgoing request, the
// way the official player configures its client after auth2.
type authTransport struct {
	token Secret
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(headerAuthToken) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(headerAuthToken, t.token.Reveal())
	}
	return t.next.RoundTrip(req)
}
