package radiko

import (
	"errors"
	"fmt"
)

// Failure modes of the handshake and stream resolution. Every failure in
// the negotiation chain aborts the whole negotiation; stream resolution
// failures are per-station and leave the session intact.
var (
	// ErrPatternNotFound means an expected literal (area ID, auth key) was
	// absent from a response body. The upstream bootstrap script or area
	// page changed shape.
	ErrPatternNotFound = errors.New("expected pattern not found in response body")

	// ErrMissingAuthHeaders means the auth1 response lacked the token,
	// offset or length header, or carried a non-numeric offset/length.
	ErrMissingAuthHeaders = errors.New("auth1 response missing or malformed auth headers")

	// ErrKeySliceOutOfRange means offset+length exceeds the fetched key.
	// The offset/length contract has changed; truncating would only move
	// the failure to auth2, so it is rejected here.
	ErrKeySliceOutOfRange = errors.New("partial key slice out of range")

	// ErrAuth2Rejected means the service refused the derived partial key.
	// The scraped key or the offset/length parsing is stale.
	ErrAuth2Rejected = errors.New("auth2 rejected the partial key")

	// ErrLoginRejected means the member login or its verification failed.
	ErrLoginRejected = errors.New("login rejected")

	// ErrNoVariantStream means the master playlist contained no
	// EXT-X-STREAM-INF entry.
	ErrNoVariantStream = errors.New("master playlist has no variant stream")
)

// StatusError reports a non-success HTTP response. The service returns
// human-readable error text rather than a structured error, so the body is
// carried for diagnosis.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
