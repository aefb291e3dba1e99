package transport

import (
	"net"
	"time"

	"github.com/roland-remote/roland-go/pkg/wire"
)

// ClientConnection represents a client-side connection to a device.
// Implemented by ClientConn; pkg/service depends on this interface so
// tests can substitute a fake device.
type ClientConnection interface {
	// ID returns the connection identifier used in log events.
	ID() string

	// LocalAddr returns the local network address.
	LocalAddr() net.Addr

	// RemoteAddr returns the device's network address.
	RemoteAddr() net.Addr

	// Send encodes and writes a command without waiting for the response.
	Send(cmd wire.Command) error

	// Receive reads one complete raw message with the specified timeout.
	Receive(timeout time.Duration) (string, error)

	// RoundTrip performs one half-duplex command/response exchange.
	RoundTrip(cmd wire.Command) (wire.Response, error)

	// Close closes the connection.
	Close() error
}

// Compile-time interface satisfaction check.
var _ ClientConnection = (*ClientConn)(nil)
