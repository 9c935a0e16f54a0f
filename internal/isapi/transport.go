package isapi

import "context"

// Transport executes a Command and returns the raw response bytes. A failed
// execution never returns partial bytes.
//
// Transports that hold connections also implement io.Closer.
type Transport interface {
	Execute(ctx context.Context, cmd Command) ([]byte, error)
}

const (
	TransportTunnel = "tunnel"
	TransportCloud  = "cloud"
)
