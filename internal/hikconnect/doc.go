// Package hikconnect is a client for the Hik-Connect cloud API.
//
// A Client owns one models.Session. Login runs the vendor handshake,
// following regional redirects up to a bounded count, and stores the
// resulting credentials. Refresh rotates both credentials without
// re-submitting the password. Every other call reads a consistent
// snapshot of the session when it is issued, so a refresh running
// concurrently is visible to the next call and never half applied.
//
// The package also covers the plain request/response endpoints built on an
// authenticated session: device and camera listing, intercom call status,
// call control and remote unlock.
package hikconnect
