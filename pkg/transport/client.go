package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roland-remote/roland-go/pkg/log"
	"github.com/roland-remote/roland-go/pkg/wire"
)

// Connection errors.
var (
	// ErrConnectionClosed indicates the connection was closed locally.
	ErrConnectionClosed = errors.New("connection closed")
)

// Default timeouts. The device answers within tens of milliseconds on a
// LAN; seconds-scale bounds catch unplugged cables, not slow replies.
const (
	DefaultDialTimeout  = 10 * time.Second
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

// ClientConfig configures a device client.
type ClientConfig struct {
	// DialTimeout bounds connection establishment (default: 10s).
	DialTimeout time.Duration

	// ReadTimeout bounds each response read (default: 5s).
	ReadTimeout time.Duration

	// WriteTimeout bounds each command write (default: 5s).
	WriteTimeout time.Duration

	// MaxMessageSize bounds receive buffer growth (default: 4 KB).
	MaxMessageSize int

	// STX enables RS-232 presentation mode: every outgoing command is
	// prefixed with the STX control byte. Telnet connections leave this
	// unset.
	STX bool

	// Logger receives protocol events. Nil disables capture.
	Logger log.Logger
}

// Client connects to VR-6HD devices over TCP.
type Client struct {
	config ClientConfig
}

// NewClient creates a new device client, applying defaults for zero
// config fields.
func NewClient(config ClientConfig) *Client {
	if config.DialTimeout == 0 {
		config.DialTimeout = DefaultDialTimeout
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	return &Client{config: config}
}

// Connect establishes a connection to the device at address (host:port).
func (c *Client) Connect(ctx context.Context, address string) (*ClientConn, error) {
	// Apply timeout from config if context doesn't have one
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.DialTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	return newClientConn(conn, c.config), nil
}

// ClientConn represents an open connection to a device.
type ClientConn struct {
	conn   net.Conn
	id     string
	config ClientConfig
	reader *MessageReader
	writer *CommandWriter

	closeCh   chan struct{}
	closeOnce sync.Once

	// exchangeMu serializes round trips: the protocol is half-duplex and
	// exactly one request may be in flight.
	exchangeMu sync.Mutex
}

// newClientConn wraps an established network connection. Exposed through
// Connect; tests use it directly with net.Pipe.
func newClientConn(conn net.Conn, config ClientConfig) *ClientConn {
	c := &ClientConn{
		conn:    conn,
		id:      uuid.New().String(),
		config:  config,
		reader:  NewMessageReaderWithMaxSize(conn, config.MaxMessageSize),
		writer:  NewCommandWriter(conn, config.STX),
		closeCh: make(chan struct{}),
	}
	if config.Logger != nil {
		c.reader.SetLogger(config.Logger, c.id)
		c.writer.SetLogger(config.Logger, c.id)
	}
	return c
}

// ID returns the connection identifier used in log events.
func (c *ClientConn) ID() string {
	return c.id
}

// LocalAddr returns the local network address.
func (c *ClientConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the device's network address.
func (c *ClientConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send encodes and writes a command without waiting for the response.
func (c *ClientConn) Send(cmd wire.Command) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}

	if c.config.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	if err := c.writer.WriteCommand(cmd); err != nil {
		c.logError(err, "send command")
		return err
	}

	if c.config.Logger != nil {
		c.config.Logger.Log(c.makeMessageEvent(log.DirectionOut, commandEvent(cmd)))
	}
	return nil
}

// Receive reads one complete raw message from the device with a timeout.
// A timeout surfaces as a network error, never as a protocol error.
func (c *ClientConn) Receive(timeout time.Duration) (string, error) {
	select {
	case <-c.closeCh:
		return "", ErrConnectionClosed
	default:
	}

	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
		defer c.conn.SetReadDeadline(time.Time{})
	}

	msg, err := c.reader.ReadMessage()
	if err != nil {
		c.logError(err, "receive message")
		return "", err
	}
	return msg, nil
}

// RoundTrip performs one half-duplex exchange: send the command, read
// until a complete message is assembled, parse it. Protocol errors from
// parsing and I/O errors from the network remain distinguishable through
// errors.Is; a device-reported ERR response is returned as a successful
// parse (a wire.DeviceError response value), not as an error.
func (c *ClientConn) RoundTrip(cmd wire.Command) (wire.Response, error) {
	c.exchangeMu.Lock()
	defer c.exchangeMu.Unlock()

	if err := c.Send(cmd); err != nil {
		return nil, err
	}

	msg, err := c.Receive(c.config.ReadTimeout)
	if err != nil {
		return nil, err
	}

	resp, err := wire.ParseResponse(msg)
	if err != nil {
		c.logError(err, "parse response")
		return nil, err
	}

	if c.config.Logger != nil {
		c.config.Logger.Log(c.makeMessageEvent(log.DirectionIn, responseEvent(resp)))
	}
	return resp, nil
}

// Close closes the connection. It is safe to call multiple times.
func (c *ClientConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

func (c *ClientConn) makeMessageEvent(direction log.Direction, msg *log.MessageEvent) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    direction,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		RemoteAddr:   c.conn.RemoteAddr().String(),
		Message:      msg,
	}
}

func (c *ClientConn) logError(err error, context string) {
	if c.config.Logger == nil {
		return
	}
	c.config.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    log.DirectionIn,
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: context,
		},
	})
}

// commandEvent builds the wire-layer log payload for an outgoing command.
func commandEvent(cmd wire.Command) *log.MessageEvent {
	event := &log.MessageEvent{Keyword: wire.Keyword(cmd)}
	switch cmd := cmd.(type) {
	case wire.WriteParameter:
		event.Address = cmd.Address.Hex()
		value := cmd.Value
		event.Value = &value
	case wire.ReadParameter:
		event.Address = cmd.Address.Hex()
		size := cmd.Size
		event.Size = &size
	}
	return event
}

// responseEvent builds the wire-layer log payload for a parsed response.
func responseEvent(resp wire.Response) *log.MessageEvent {
	switch resp := resp.(type) {
	case wire.Acknowledge:
		return &log.MessageEvent{Keyword: "ACK"}
	case wire.Data:
		value := resp.Value
		return &log.MessageEvent{Keyword: "DTH", Address: resp.Address.Hex(), Value: &value}
	case wire.Version:
		return &log.MessageEvent{Keyword: "VER", Product: resp.Product, ProductVersion: resp.Version}
	case wire.DeviceError:
		code := uint8(resp.Code)
		return &log.MessageEvent{Keyword: "ERR", ErrorCode: &code}
	default:
		return &log.MessageEvent{Keyword: fmt.Sprintf("UNKNOWN(%T)", resp)}
	}
}
