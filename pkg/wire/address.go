package wire

import "fmt"

// AddressHexLen is the length of an address in its textual form.
const AddressHexLen = 6

const hexDigits = "0123456789ABCDEF"

// Address is a 3-byte SysEx parameter address, the addressing scheme the
// VR-6HD borrows from its native MIDI control protocol. Textual form is
// exactly six uppercase hex digits, most-significant byte first.
//
// Address is an immutable value type and is safe to copy and compare.
type Address struct {
	High uint8
	Mid  uint8
	Low  uint8
}

// NewAddress creates an address from three raw bytes.
func NewAddress(high, mid, low uint8) Address {
	return Address{High: high, Mid: mid, Low: low}
}

// ParseAddress parses a 6-hex-digit address string. Parsing is
// case-insensitive; two consecutive digits form one byte, most-significant
// first ("123456" parses to high=0x12, mid=0x34, low=0x56).
func ParseAddress(s string) (Address, error) {
	if len(s) != AddressHexLen {
		return Address{}, fmt.Errorf("%w: %q is not %d hex digits", ErrInvalidAddress, s, AddressHexLen)
	}

	high, ok := parseHexByte(s[0:2])
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	mid, ok := parseHexByte(s[2:4])
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	low, ok := parseHexByte(s[4:6])
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	return Address{High: high, Mid: mid, Low: low}, nil
}

// AppendHex appends the address as six uppercase hex digits to dst and
// returns the extended slice. It never allocates beyond growing dst, which
// makes it usable on constrained execution paths; Hex is implemented in
// terms of it.
func (a Address) AppendHex(dst []byte) []byte {
	dst = appendHexByte(dst, a.High)
	dst = appendHexByte(dst, a.Mid)
	return appendHexByte(dst, a.Low)
}

// Hex returns the address as six uppercase hex digits.
func (a Address) Hex() string {
	buf := make([]byte, 0, AddressHexLen)
	return string(a.AppendHex(buf))
}

// String returns the textual form of the address.
func (a Address) String() string {
	return a.Hex()
}

// appendHexByte appends b as two uppercase hex digits.
func appendHexByte(dst []byte, b uint8) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}

// parseHexByte parses exactly two hex digits, either case.
func parseHexByte(s string) (uint8, bool) {
	if len(s) != 2 {
		return 0, false
	}
	high, ok := hexDigitValue(s[0])
	if !ok {
		return 0, false
	}
	low, ok := hexDigitValue(s[1])
	if !ok {
		return 0, false
	}
	return high<<4 | low, true
}

func hexDigitValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
