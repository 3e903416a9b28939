package radiko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// Area IDs are two uppercase letters followed by two digits, e.g. "JP13"
// for Tokyo. The area page embeds the ID in free text.
var areaIDPattern = regexp.MustCompile(`[A-Z]{2}[0-9]{2}`)

// resolveAreaID asks the unauthenticated area endpoint which region the
// caller connects from.
func resolveAreaID(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building area request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching area: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading area response: %w", err)
	}

	areaID := areaIDPattern.FindString(string(body))
	if areaID == "" {
		return "", fmt.Errorf("area ID not present in response: %w", ErrPatternNotFound)
	}

	return areaID, nil
}
