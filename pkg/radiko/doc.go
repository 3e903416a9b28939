// Package radiko is a client for the radiko internet radio service.
//
// It implements the two-phase token handshake the official web player
// performs before any stream can be requested:
//   - auth1 returns an auth token plus an offset/length pair
//   - the shared key is scraped from the player bootstrap script
//   - auth2 proves possession of the key by sending back a base64-encoded
//     slice of it at the server-chosen offset
//
// A successful handshake yields an immutable Session. Refreshing never
// mutates a live Session; it produces a new one and swaps an atomic
// pointer, so concurrent users of the old snapshot are unaffected.
//
// Stream resolution builds the playlist-create URL for a station, fetches
// the HLS master playlist over the authenticated transport, and extracts
// the single media playlist URI the service offers.
package radiko
