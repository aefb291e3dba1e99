package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the device address (host:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"7,keyasint,omitempty"`  // Transport layer
	Message     *MessageEvent     `cbor:"8,keyasint,omitempty"`  // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Connection state
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw message text).
	LayerTransport Layer = 0
	// LayerWire is the codec layer (decoded commands/responses).
	LayerWire Layer = 1
	// LayerService is the application/service layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (command/response).
	CategoryMessage Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw message text at the transport layer.
type FrameEvent struct {
	// Size is the message size in bytes as seen on the wire.
	Size int `cbor:"1,keyasint"`

	// Data is the raw message bytes (may be truncated for large messages).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates whether Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded command or response at the wire layer.
type MessageEvent struct {
	// Keyword is the protocol keyword (DTH, RQH, VER, ERR) or "ACK".
	Keyword string `cbor:"1,keyasint"`

	// Address is the SysEx address in hex form, when the message has one.
	Address string `cbor:"2,keyasint,omitempty"`

	// Value is the parameter value (DTH commands and data responses).
	Value *uint8 `cbor:"3,keyasint,omitempty"`

	// Size is the requested read size (RQH commands).
	Size *uint32 `cbor:"4,keyasint,omitempty"`

	// Product and ProductVersion are set for version responses.
	Product        string `cbor:"5,keyasint,omitempty"`
	ProductVersion string `cbor:"6,keyasint,omitempty"`

	// ErrorCode is the device error code (ERR responses).
	ErrorCode *uint8 `cbor:"7,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
