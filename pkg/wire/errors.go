package wire

import (
	"errors"
	"fmt"
)

// Codec errors. Every fallible operation in this package returns one of
// these sentinels, possibly wrapped with additional context.
var (
	// ErrInvalidAddress indicates a malformed SysEx address.
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrInvalidValue indicates a malformed parameter value.
	ErrInvalidValue = errors.New("invalid value format")

	// ErrInvalidResponse indicates a response that doesn't match the grammar.
	ErrInvalidResponse = errors.New("invalid response format")

	// ErrFlowControl indicates an XON/XOFF flow-control signal was received
	// in place of a response. Flow control is a transport concern and must
	// never be interpreted as data, so the codec reports it as a parse
	// failure. ErrFlowControl matches errors.Is(err, ErrInvalidResponse).
	ErrFlowControl = fmt.Errorf("flow control signal: %w", ErrInvalidResponse)
)

// ErrorCode is a device-reported error code from an ERR:code; response.
type ErrorCode uint8

// Error codes defined by the VR-6HD remote-control documentation.
const (
	// CodeSyntaxError indicates a syntax error in the received command.
	CodeSyntaxError ErrorCode = 0

	// CodeInvalid indicates the command is invalid due to other settings.
	CodeInvalid ErrorCode = 4

	// CodeOutOfRange indicates a parameter was out of range.
	CodeOutOfRange ErrorCode = 5

	// CodeNoStx indicates a missing STX at command start (RS-232 only).
	CodeNoStx ErrorCode = 6
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case CodeSyntaxError:
		return "SYNTAX_ERROR"
	case CodeInvalid:
		return "INVALID"
	case CodeOutOfRange:
		return "OUT_OF_RANGE"
	case CodeNoStx:
		return "NO_STX"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// Known returns true if the code is one of the documented error codes.
func (c ErrorCode) Known() bool {
	switch c {
	case CodeSyntaxError, CodeInvalid, CodeOutOfRange, CodeNoStx:
		return true
	default:
		return false
	}
}

// DeviceError is an error reported by the device in an ERR response.
// It is both a Response variant and an error value, so callers can
// propagate it directly with errors.As.
type DeviceError struct {
	Code ErrorCode
}

// Error implements the error interface.
func (e DeviceError) Error() string {
	switch e.Code {
	case CodeSyntaxError:
		return "device error: syntax error in received command"
	case CodeInvalid:
		return "device error: invalid command due to other settings"
	case CodeOutOfRange:
		return "device error: parameter out of range"
	case CodeNoStx:
		return "device error: missing STX at command start"
	default:
		return fmt.Sprintf("device error: unknown error code %d", uint8(e.Code))
	}
}
