package radiko

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"strconv"
	"time"
)

// newLSID generates the local stream identifier the playlist endpoint
// expects. The official player invents this value client-side; the service
// checks only presence and shape, never the content. It must not be
// confused with the server-issued auth token.
//
// Shape: md5 of a random integer in [0, 1e9) concatenated with the current
// wall clock in milliseconds, rendered as lowercase hex.
func newLSID() string {
	n := rand.Int63n(1_000_000_000)
	ms := time.Now().UnixMilli()

	sum := md5.Sum([]byte(strconv.FormatInt(n, 10) + strconv.FormatInt(ms, 10)))
	return hex.EncodeToString(sum[:])
}
