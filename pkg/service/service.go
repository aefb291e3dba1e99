package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/roland-remote/roland-go/pkg/connection"
	"github.com/roland-remote/roland-go/pkg/log"
	"github.com/roland-remote/roland-go/pkg/transport"
	"github.com/roland-remote/roland-go/pkg/wire"
)

// Service errors.
var (
	// ErrNotConnected indicates no connection to the device is up.
	ErrNotConnected = errors.New("not connected to device")

	// ErrUnexpectedResponse indicates the device answered with a response
	// type that doesn't match the request (e.g. a version reply to a
	// parameter write).
	ErrUnexpectedResponse = errors.New("unexpected response type")
)

// DefaultPort is the Telnet control port of the VR-6HD.
const DefaultPort = 23

// Config configures a DeviceService.
type Config struct {
	// Host is the device's IP address or hostname.
	Host string

	// Port is the Telnet control port (default: 23).
	Port int

	// STX enables RS-232 presentation mode (STX prefix on commands).
	STX bool

	// DialTimeout, ReadTimeout and WriteTimeout bound the individual
	// network operations; zero values use the transport defaults.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// AutoReconnect re-establishes the connection with backoff after
	// the link drops.
	AutoReconnect bool

	// Logger receives protocol events. Nil disables capture.
	Logger log.Logger
}

// dialFunc establishes a device connection; swapped out in tests.
type dialFunc func(ctx context.Context, address string) (transport.ClientConnection, error)

// DeviceService is the high-level client for one VR-6HD device. Safe for
// concurrent use; the underlying protocol is half-duplex, so operations
// are serialized on the connection.
type DeviceService struct {
	config  Config
	manager *connection.Manager
	dial    dialFunc

	mu   sync.Mutex
	conn transport.ClientConnection
}

// New creates a DeviceService for the device at config.Host.
func New(config Config) *DeviceService {
	if config.Port == 0 {
		config.Port = DefaultPort
	}

	client := transport.NewClient(transport.ClientConfig{
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		STX:          config.STX,
		Logger:       config.Logger,
	})

	s := &DeviceService{
		config: config,
		dial: func(ctx context.Context, address string) (transport.ClientConnection, error) {
			return client.Connect(ctx, address)
		},
	}

	s.manager = connection.NewManager(s.establish, connection.ManagerConfig{
		AutoReconnect:  config.AutoReconnect,
		ConnectTimeout: config.DialTimeout,
		Logger:         config.Logger,
	})
	if config.AutoReconnect {
		s.manager.Start()
	}

	return s
}

// Address returns the host:port the service connects to.
func (s *DeviceService) Address() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}

// Connect establishes the connection to the device.
func (s *DeviceService) Connect(ctx context.Context) error {
	return s.manager.Connect(ctx)
}

// Connected reports whether a connection to the device is up.
func (s *DeviceService) Connected() bool {
	return s.manager.IsConnected()
}

// ConnectionState returns the current connection state.
func (s *DeviceService) ConnectionState() connection.State {
	return s.manager.State()
}

// Close shuts down the service and closes the connection.
func (s *DeviceService) Close() error {
	s.manager.Close()

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// establish is the connection.ConnectFunc: dial and swap in the new
// connection, closing any stale one.
func (s *DeviceService) establish(ctx context.Context) error {
	conn, err := s.dial(ctx, s.Address())
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.conn
	s.conn = conn
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// WriteParameter writes one byte at a SysEx address and waits for the
// device to acknowledge. A device-reported rejection is returned as a
// wire.DeviceError.
func (s *DeviceService) WriteParameter(address wire.Address, value uint8) error {
	resp, err := s.exchange(wire.WriteParameter{Address: address, Value: value})
	if err != nil {
		return err
	}

	switch resp := resp.(type) {
	case wire.Acknowledge:
		return nil
	case wire.DeviceError:
		return resp
	default:
		return fmt.Errorf("%w: %T to parameter write", ErrUnexpectedResponse, resp)
	}
}

// ReadParameter reads a parameter at a SysEx address. Size is the number
// of bytes requested, typically 1.
func (s *DeviceService) ReadParameter(address wire.Address, size uint32) (uint8, error) {
	resp, err := s.exchange(wire.ReadParameter{Address: address, Size: size})
	if err != nil {
		return 0, err
	}

	switch resp := resp.(type) {
	case wire.Data:
		return resp.Value, nil
	case wire.DeviceError:
		return 0, resp
	default:
		return 0, fmt.Errorf("%w: %T to parameter read", ErrUnexpectedResponse, resp)
	}
}

// GetVersion queries the device's product name and firmware version.
func (s *DeviceService) GetVersion() (product, version string, err error) {
	resp, err := s.exchange(wire.GetVersion{})
	if err != nil {
		return "", "", err
	}

	switch resp := resp.(type) {
	case wire.Version:
		return resp.Product, resp.Version, nil
	case wire.DeviceError:
		return "", "", resp
	default:
		return "", "", fmt.Errorf("%w: %T to version request", ErrUnexpectedResponse, resp)
	}
}

// Exchange performs one raw command/response round trip. Most callers
// want the typed operations instead.
func (s *DeviceService) Exchange(cmd wire.Command) (wire.Response, error) {
	return s.exchange(cmd)
}

func (s *DeviceService) exchange(cmd wire.Command) (wire.Response, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil || !s.manager.IsConnected() {
		return nil, ErrNotConnected
	}

	resp, err := conn.RoundTrip(cmd)
	if err != nil {
		if isConnectionLoss(err) {
			s.manager.ConnectionLost(err.Error())
		}
		return nil, err
	}
	return resp, nil
}

// isConnectionLoss distinguishes a dead link from protocol-level
// failures; only the former triggers reconnection.
func isConnectionLoss(err error) bool {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, transport.ErrConnectionClosed),
		errors.Is(err, transport.ErrMessageTruncated),
		errors.Is(err, net.ErrClosed):
		return true
	default:
		return false
	}
}
