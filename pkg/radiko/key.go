package radiko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// The auth key is embedded as a constructor argument in the player
// bootstrap script. This is the single most fragile dependency in the
// client; when the script shape drifts the match fails with
// ErrPatternNotFound and nothing else in the handshake is attempted.
var authKeyPattern = regexp.MustCompile(`new RadikoJSPlayer\(.*?,.*?,.'(\w+)'`)

// fetchAuthKey retrieves the shared auth key from the public bootstrap
// script. The key is fetched fresh on every negotiation because the asset
// can rotate without notice; it is never cached.
func fetchAuthKey(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building auth key request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching auth key script: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading auth key script: %w", err)
	}

	m := authKeyPattern.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("auth key not present in %s: %w", url, ErrPatternNotFound)
	}

	return m[1], nil
}
