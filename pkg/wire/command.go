package wire

import "fmt"

// Control bytes used by the protocol.
const (
	// STX prefixes every command on the RS-232 interface.
	STX = 0x02

	// ACK acknowledges a parameter write.
	ACK = 0x06

	// XON signals the device is ready to receive further data.
	XON = 0x11

	// XOFF signals the device cannot receive further data.
	XOFF = 0x13
)

// Terminator ends every command and every body-carrying response.
const Terminator = ';'

// Command keywords.
const (
	keywordData    = "DTH"
	keywordRead    = "RQH"
	keywordVersion = "VER"
	keywordError   = "ERR"
)

// Command is an outgoing request to the device. It is a closed variant:
// the only implementations are WriteParameter, ReadParameter and
// GetVersion. Commands are immutable values; encoding is a pure function.
type Command interface {
	// appendBody appends the command text (keyword through terminator).
	appendBody(dst []byte) []byte

	isCommand()
}

// WriteParameter writes one byte at a SysEx address. Wire form
// DTH:AAAAAA,VV; and the device answers with ACK or ERR.
type WriteParameter struct {
	Address Address
	Value   uint8
}

func (WriteParameter) isCommand() {}

func (c WriteParameter) appendBody(dst []byte) []byte {
	dst = append(dst, keywordData...)
	dst = append(dst, ':')
	dst = c.Address.AppendHex(dst)
	dst = append(dst, ',')
	dst = appendHexByte(dst, c.Value)
	return append(dst, Terminator)
}

// String returns the Telnet wire form of the command.
func (c WriteParameter) String() string { return EncodeCommand(c, false) }

// ReadParameter requests Size bytes starting at a SysEx address. Wire form
// RQH:AAAAAA,SSSSSS; where the size is rendered as a 24-bit hex field
// regardless of its in-memory width. The device answers with DTH or ERR.
type ReadParameter struct {
	Address Address
	Size    uint32
}

func (ReadParameter) isCommand() {}

func (c ReadParameter) appendBody(dst []byte) []byte {
	dst = append(dst, keywordRead...)
	dst = append(dst, ':')
	dst = c.Address.AppendHex(dst)
	dst = append(dst, ',')
	// Size occupies 6 hex digits; bits above 24 are truncated.
	dst = appendHexByte(dst, uint8(c.Size>>16))
	dst = appendHexByte(dst, uint8(c.Size>>8))
	dst = appendHexByte(dst, uint8(c.Size))
	return append(dst, Terminator)
}

// String returns the Telnet wire form of the command.
func (c ReadParameter) String() string { return EncodeCommand(c, false) }

// GetVersion requests version information. Wire form VER; with no payload.
type GetVersion struct{}

func (GetVersion) isCommand() {}

func (GetVersion) appendBody(dst []byte) []byte {
	dst = append(dst, keywordVersion...)
	return append(dst, Terminator)
}

// String returns the Telnet wire form of the command.
func (c GetVersion) String() string { return EncodeCommand(c, false) }

// AppendCommand appends the wire form of cmd to dst and returns the
// extended slice. With stx the command is prefixed with a single STX byte
// as required on RS-232; Telnet callers pass false. This is the
// allocation-free encode path; EncodeCommand is built on top of it.
func AppendCommand(dst []byte, cmd Command, stx bool) []byte {
	if stx {
		dst = append(dst, STX)
	}
	return cmd.appendBody(dst)
}

// EncodeCommand returns the wire form of cmd as a string.
func EncodeCommand(cmd Command, stx bool) string {
	buf := make([]byte, 0, 24)
	return string(AppendCommand(buf, cmd, stx))
}

// Keyword returns the protocol keyword of a command, for logging.
func Keyword(cmd Command) string {
	switch cmd.(type) {
	case WriteParameter:
		return keywordData
	case ReadParameter:
		return keywordRead
	case GetVersion:
		return keywordVersion
	default:
		return fmt.Sprintf("UNKNOWN(%T)", cmd)
	}
}
