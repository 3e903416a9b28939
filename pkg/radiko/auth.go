package radiko

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Request and response headers of the handshake.
const (
	headerAuthToken  = "X-Radiko-Authtoken"
	headerKeyOffset  = "X-Radiko-KeyOffset"
	headerKeyLength  = "X-Radiko-KeyLength"
	headerPartialKey = "X-Radiko-Partialkey"
	headerApp        = "X-Radiko-App"
	headerAppVersion = "X-Radiko-App-Version"
	headerUser       = "X-Radiko-User"
	headerDevice     = "X-Radiko-Device"
)

// Client identity presented on auth1/auth2, matching the official HTML5
// player.
const (
	appID      = "pc_html5"
	appVersion = "0.0.1"
	appUser    = "dummy_user"
	appDevice  = "pc"
)

// Name of the member session cookie issued by the login endpoint.
const sessionCookieName = "radiko_session"

// Credentials are the member login used to unlock area-free playback.
// They are consumed during negotiation and retained only by the Client for
// later refresh, never by the Session.
type Credentials struct {
	Email    string
	Password Secret
}

// Negotiator performs the handshake that produces a Session. Negotiation
// is a strictly sequential chain with no internal retries; each step either
// succeeds or fails the whole negotiation. Running several negotiations
// concurrently is safe since Sessions are independent values.
type Negotiator struct {
	endpoints Endpoints
	logger    *slog.Logger
}

// NewNegotiator creates a Negotiator against the given endpoints.
func NewNegotiator(endpoints Endpoints, logger *slog.Logger) *Negotiator {
	return &Negotiator{
		endpoints: endpoints,
		logger:    logger.With("module", "negotiator"),
	}
}

// Negotiate runs the full handshake. With credentials, a member login is
// performed and verified before anything else; a rejected login fails the
// negotiation rather than falling back to an anonymous session.
func (n *Negotiator) Negotiate(ctx context.Context, creds *Credentials) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar}

	if creds != nil {
		memberSession, err := n.login(ctx, client, creds)
		if err != nil {
			return nil, err
		}
		// The playlist host is a different domain, so the host-only cookie
		// planted during login has to be set there explicitly.
		for _, base := range []string{n.endpoints.StreamBaseURL, n.endpoints.StreamAreaFreeBaseURL} {
			if u, err := url.Parse(base); err == nil {
				jar.SetCookies(u, []*http.Cookie{{Name: sessionCookieName, Value: memberSession, Path: "/"}})
			}
		}
		n.logger.Debug("member login verified")
	}

	areaID, err := resolveAreaID(ctx, client, n.endpoints.AreaURL)
	if err != nil {
		return nil, err
	}

	token, offset, length, err := n.auth1(ctx, client)
	if err != nil {
		return nil, err
	}

	key, err := fetchAuthKey(ctx, client, n.endpoints.AuthKeyURL)
	if err != nil {
		return nil, err
	}

	partial, err := partialKey(key, offset, length)
	if err != nil {
		return nil, err
	}

	if err := n.auth2(ctx, client, token, partial); err != nil {
		return nil, err
	}

	n.logger.Debug("handshake complete", "area", areaID, "area_free", creds != nil)

	return &Session{
		AreaID:    areaID,
		AuthToken: token,
		LSID:      newLSID(),
		AreaFree:  creds != nil,
		client: &http.Client{
			Transport: &authTransport{token: token, next: http.DefaultTransport},
			Jar:       jar,
		},
	}, nil
}

// login posts the member credentials, plants the returned session
// identifier as a cookie, and verifies the service accepts it. The
// verification runs before auth1 so a bad login fails fast without
// spending handshake calls.
func (n *Negotiator) login(ctx context.Context, client *http.Client, creds *Credentials) (string, error) {
	form := url.Values{}
	form.Set("mail", creds.Email)
	form.Set("pass", creds.Password.Reveal())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoints.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d: %w", resp.StatusCode, ErrLoginRejected)
	}

	var body struct {
		RadikoSession string `json:"radiko_session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if body.RadikoSession == "" {
		return "", fmt.Errorf("login response carried no session: %w", ErrLoginRejected)
	}

	cookieURL, err := url.Parse(n.endpoints.LoginCheckURL)
	if err != nil {
		return "", fmt.Errorf("parsing login check URL: %w", err)
	}
	// Path-scope to the whole host; the jar would otherwise limit the
	// cookie to the login-check directory.
	client.Jar.SetCookies(cookieURL, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: body.RadikoSession,
		Path:  "/",
	}})

	checkReq, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoints.LoginCheckURL, nil)
	if err != nil {
		return "", fmt.Errorf("building login check request: %w", err)
	}

	checkResp, err := client.Do(checkReq)
	if err != nil {
		return "", fmt.Errorf("checking login: %w", err)
	}
	defer checkResp.Body.Close()

	if checkResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login check returned status %d: %w", checkResp.StatusCode, ErrLoginRejected)
	}

	return body.RadikoSession, nil
}

// auth1 sends the client identity and extracts the token and the key
// slicing instructions from the response headers.
func (n *Negotiator) auth1(ctx context.Context, client *http.Client) (token Secret, offset, length int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoints.Auth1URL, nil)
	if err != nil {
		return "", 0, 0, fmt.Errorf("building auth1 request: %w", err)
	}
	req.Header.Set(headerApp, appID)
	req.Header.Set(headerAppVersion, appVersion)
	req.Header.Set(headerUser, appUser)
	req.Header.Set(headerDevice, appDevice)

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, 0, fmt.Errorf("calling auth1: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, 0, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	rawToken := resp.Header.Get(headerAuthToken)
	rawOffset := resp.Header.Get(headerKeyOffset)
	rawLength := resp.Header.Get(headerKeyLength)
	if rawToken == "" || rawOffset == "" || rawLength == "" {
		return "", 0, 0, fmt.Errorf("auth1 response headers token=%t offset=%t length=%t: %w",
			rawToken != "", rawOffset != "", rawLength != "", ErrMissingAuthHeaders)
	}

	offset, err = strconv.Atoi(rawOffset)
	if err != nil {
		return "", 0, 0, fmt.Errorf("auth1 key offset %q: %w", rawOffset, ErrMissingAuthHeaders)
	}
	length, err = strconv.Atoi(rawLength)
	if err != nil {
		return "", 0, 0, fmt.Errorf("auth1 key length %q: %w", rawLength, ErrMissingAuthHeaders)
	}

	return Secret(rawToken), offset, length, nil
}

// partialKey derives the base64-encoded slice of the auth key at the
// server-chosen offset and length. An out-of-range pair means the contract
// with the service changed; it is never silently truncated. The bounds are
// compared without summing offset and length, which could overflow on
// hostile header values.
func partialKey(key []byte, offset, length int) (string, error) {
	if offset < 0 || length < 0 || offset > len(key) || length > len(key)-offset {
		return "", fmt.Errorf("offset %d length %d against %d-byte key: %w",
			offset, length, len(key), ErrKeySliceOutOfRange)
	}
	return base64.StdEncoding.EncodeToString(key[offset : offset+length]), nil
}

// auth2 proves key possession. A non-success response is a hard failure;
// it almost always means the scraped key or the offset/length parsing is
// stale. The partial key itself is never included in the error.
func (n *Negotiator) auth2(ctx context.Context, client *http.Client, token Secret, partial string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoints.Auth2URL, nil)
	if err != nil {
		return fmt.Errorf("building auth2 request: %w", err)
	}
	req.Header.Set(headerAuthToken, token.Reveal())
	req.Header.Set(headerPartialKey, partial)
	req.Header.Set(headerUser, appUser)
	req.Header.Set(headerDevice, appDevice)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling auth2: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("auth2 returned status %d body %q: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), ErrAuth2Rejected)
	}

	return nil
}
