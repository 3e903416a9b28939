package radiko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ResolveStreamURL builds the playlist-create URL for a station. Pure
// construction, no I/O: the same session and station always yield the
// same URL.
func ResolveStreamURL(e Endpoints, s *Session, stationID string) string {
	return e.PlaylistCreateURL(stationID, s.LSID, s.AreaFree)
}

// FetchMasterPlaylist retrieves the HLS master playlist for a station over
// the session's authenticated transport. A non-success status carries the
// response body; the service answers with human-readable error text.
func FetchMasterPlaylist(ctx context.Context, e Endpoints, s *Session, stationID string) (string, error) {
	streamURL := ResolveStreamURL(e, s, stationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return "", fmt.Errorf("building playlist request: %w", err)
	}

	resp, err := s.HTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching master playlist: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading master playlist: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return string(body), nil
}

// ExtractMediaPlaylistURI picks the media playlist out of a master
// playlist. The service is observed to always offer exactly one variant
// stream; the first is taken. Malformed input is surfaced with the raw
// playlist attached, since a broken playlist usually means an
// authentication or entitlement problem rather than a parser bug.
func ExtractMediaPlaylistURI(masterPlaylist string) (string, error) {
	lines := strings.Split(masterPlaylist, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "#EXTM3U" {
		return "", fmt.Errorf("not an HLS playlist: %q", masterPlaylist)
	}

	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "#EXT-X-STREAM-INF") {
			continue
		}
		// The variant URI is the next non-blank, non-tag line.
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			if strings.HasPrefix(next, "#") {
				break
			}
			return next, nil
		}
		return "", fmt.Errorf("variant stream without URI in playlist %q: %w", masterPlaylist, ErrNoVariantStream)
	}

	return "", fmt.Errorf("no variant stream in playlist %q: %w", masterPlaylist, ErrNoVariantStream)
}
