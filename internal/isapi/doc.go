// Package isapi issues ISAPI requests to Hikvision devices that are only
// reachable through the vendor cloud.
//
// A Command describes one request. A Transport executes it and returns the
// raw response bytes, leaving XML or JSON parsing to the caller. Two
// transports exist: CloudTransport talks to the open cloud gateway with a
// static access token, TunnelTransport wraps the request inside a
// Hik-Connect API call authenticated by a logged in hikconnect.Client.
package isapi
