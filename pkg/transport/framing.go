package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/roland-remote/roland-go/pkg/log"
	"github.com/roland-remote/roland-go/pkg/wire"
)

// Framing constants.
const (
	// DefaultMaxMessageSize bounds receive buffer growth (4 KB). Real
	// device responses are a few dozen bytes.
	DefaultMaxMessageSize = 4096

	// readChunkSize is the per-read buffer size.
	readChunkSize = 256

	// MaxLogFrameDataSize is the maximum frame data size to include in
	// log events (1 KB). Larger frames are truncated in the event, never
	// on the wire.
	MaxLogFrameDataSize = 1024
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates the accumulated buffer exceeded the
	// maximum size without a complete message appearing.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageTruncated indicates the connection closed mid-message.
	ErrMessageTruncated = errors.New("message truncated")
)

// controlSignals are the complete one-byte/word messages that never carry
// the ';' terminator.
var controlSignals = []string{
	string(rune(wire.ACK)), "ack",
	string(rune(wire.XON)), "xon",
	string(rune(wire.XOFF)), "xoff",
}

// messageComplete reports whether buf holds one complete device message:
// the buffer ends with the terminator, or equals a control signal. A
// leading STX byte and surrounding whitespace are ignored, matching the
// parser in pkg/wire.
func messageComplete(buf []byte) bool {
	s := bytes.TrimSpace(buf)
	if len(s) > 0 && s[0] == wire.STX {
		s = bytes.TrimSpace(s[1:])
	}
	if len(s) == 0 {
		return false
	}
	if s[len(s)-1] == wire.Terminator {
		return true
	}
	for _, sig := range controlSignals {
		if string(s) == sig {
			return true
		}
	}
	return false
}

// MessageReader accumulates bytes from an underlying reader until a
// complete device message is assembled.
type MessageReader struct {
	r              io.Reader
	buf            []byte
	chunk          [readChunkSize]byte
	maxMessageSize int

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewMessageReader creates a message reader with the default maximum
// message size.
func NewMessageReader(r io.Reader) *MessageReader {
	return NewMessageReaderWithMaxSize(r, DefaultMaxMessageSize)
}

// NewMessageReaderWithMaxSize creates a message reader with a custom
// maximum message size.
func NewMessageReaderWithMaxSize(r io.Reader, maxSize int) *MessageReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &MessageReader{
		r:              r,
		maxMessageSize: maxSize,
	}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (mr *MessageReader) SetLogger(logger log.Logger, connID string) {
	mr.logger = logger
	mr.connID = connID
}

// ReadMessage reads until the accumulated bytes form one complete message
// and returns the message text, trimmed of surrounding whitespace. The
// internal buffer is reset afterwards: the protocol is half-duplex, so
// there is never a second message queued behind the first.
func (mr *MessageReader) ReadMessage() (string, error) {
	for !messageComplete(mr.buf) {
		if len(mr.buf) >= mr.maxMessageSize {
			return "", fmt.Errorf("%w: %d bytes without terminator", ErrMessageTooLarge, len(mr.buf))
		}

		n, err := mr.r.Read(mr.chunk[:])
		if n > 0 {
			mr.buf = append(mr.buf, mr.chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				if len(bytes.TrimSpace(mr.buf)) == 0 {
					return "", io.EOF
				}
				return "", fmt.Errorf("%w: %q", ErrMessageTruncated, mr.buf)
			}
			return "", fmt.Errorf("read failed: %w", err)
		}
	}

	msg := string(bytes.TrimSpace(mr.buf))
	mr.buf = mr.buf[:0]

	if mr.logger != nil {
		mr.logger.Log(makeFrameEvent(mr.connID, log.DirectionIn, msg))
	}

	return msg, nil
}

// CommandWriter writes encoded commands to an underlying writer.
// Thread-safe: a single scratch buffer is reused across calls.
type CommandWriter struct {
	w       io.Writer
	stx     bool
	mu      sync.Mutex
	scratch []byte

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewCommandWriter creates a command writer. With stx every command is
// prefixed with the STX control byte as required on RS-232 links.
func NewCommandWriter(w io.Writer, stx bool) *CommandWriter {
	return &CommandWriter{w: w, stx: stx}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (cw *CommandWriter) SetLogger(logger log.Logger, connID string) {
	cw.logger = logger
	cw.connID = connID
}

// WriteCommand encodes cmd and writes it in a single write call.
func (cw *CommandWriter) WriteCommand(cmd wire.Command) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.scratch = wire.AppendCommand(cw.scratch[:0], cmd, cw.stx)
	if _, err := cw.w.Write(cw.scratch); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}

	if cw.logger != nil {
		cw.logger.Log(makeFrameEvent(cw.connID, log.DirectionOut, string(cw.scratch)))
	}

	return nil
}

// makeFrameEvent creates a transport-layer log event for a raw message.
// Frame data beyond MaxLogFrameDataSize is truncated in the event.
func makeFrameEvent(connID string, direction log.Direction, msg string) log.Event {
	data := msg
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		data = data[:MaxLogFrameDataSize]
		truncated = true
	}

	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame: &log.FrameEvent{
			Size:      len(msg),
			Data:      []byte(data),
			Truncated: truncated,
		},
	}
}
