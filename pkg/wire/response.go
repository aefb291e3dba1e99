package wire

import (
	"fmt"
	"strings"
)

// Response is an incoming message from the device. It is a closed variant:
// the only implementations are Acknowledge, Data, Version and DeviceError.
type Response interface {
	isResponse()
}

// Acknowledge reports that the device accepted a parameter write. On the
// wire it is either the raw ACK control byte or the literal text "ack",
// depending on the device interface.
type Acknowledge struct{}

func (Acknowledge) isResponse() {}

func (Acknowledge) String() string { return "ACK" }

// Data is the result of a parameter read, symmetric with the DTH write
// command.
type Data struct {
	Address Address
	Value   uint8
}

func (Data) isResponse() {}

func (d Data) String() string {
	return fmt.Sprintf("DTH:%s,%02X", d.Address.Hex(), d.Value)
}

// Version carries the product and version identifiers reported by the
// device. Both are free text that cannot contain ',' or ';'.
type Version struct {
	Product string
	Version string
}

func (Version) isResponse() {}

func (v Version) String() string {
	return fmt.Sprintf("VER:%s,%s", v.Product, v.Version)
}

func (DeviceError) isResponse() {}

// ParseResponse maps a received message to exactly one Response or exactly
// one error; there is no partial result. Surrounding whitespace and one
// leading STX byte are ignored. A device-reported ERR response parses
// successfully into a DeviceError value; only messages that violate the
// grammar return an error.
func ParseResponse(s string) (Response, error) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && s[0] == STX {
		s = strings.TrimSpace(s[1:])
	}

	switch s {
	case string(rune(ACK)), "ack":
		return Acknowledge{}, nil
	case string(rune(XON)), "xon", string(rune(XOFF)), "xoff":
		// Flow control is handled by the transport, never surfaced as data.
		return nil, fmt.Errorf("%w: %q", ErrFlowControl, s)
	}

	switch {
	case strings.HasPrefix(s, keywordData+":"):
		return parseData(s[len(keywordData)+1:])
	case strings.HasPrefix(s, keywordVersion+":"):
		return parseVersion(s[len(keywordVersion)+1:])
	case strings.HasPrefix(s, keywordError+":"):
		return parseError(s[len(keywordError)+1:])
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidResponse, s)
}

// splitBody strips the trailing terminator and splits the body on the
// single ',' field separator.
func splitBody(body string) (first, second string, err error) {
	if !strings.HasSuffix(body, string(Terminator)) {
		return "", "", fmt.Errorf("%w: missing terminator in %q", ErrInvalidResponse, body)
	}
	body = body[:len(body)-1]

	fields := strings.Split(body, ",")
	if len(fields) != 2 {
		return "", "", fmt.Errorf("%w: expected 2 fields, got %d in %q", ErrInvalidResponse, len(fields), body)
	}
	return fields[0], fields[1], nil
}

func parseData(body string) (Response, error) {
	addrField, valueField, err := splitBody(body)
	if err != nil {
		return nil, err
	}

	addr, err := ParseAddress(addrField)
	if err != nil {
		return nil, err
	}

	value, ok := parseHexByte(valueField)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, valueField)
	}

	return Data{Address: addr, Value: value}, nil
}

func parseVersion(body string) (Response, error) {
	product, version, err := splitBody(body)
	if err != nil {
		return nil, err
	}
	return Version{Product: product, Version: version}, nil
}

func parseError(body string) (Response, error) {
	if !strings.HasSuffix(body, string(Terminator)) {
		return nil, fmt.Errorf("%w: missing terminator in %q", ErrInvalidResponse, body)
	}

	code, err := parseDecimalU8(body[:len(body)-1])
	if err != nil {
		return nil, err
	}
	return DeviceError{Code: ErrorCode(code)}, nil
}

// parseDecimalU8 parses a non-negative decimal integer digit by digit,
// checking overflow against the 8-bit range. Signs are not accepted.
func parseDecimalU8(s string) (uint8, error) {
	var result uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: bad error code %q", ErrInvalidResponse, s)
		}
		digit := c - '0'
		if result > (255-digit)/10 {
			return 0, fmt.Errorf("%w: error code %q overflows", ErrInvalidResponse, s)
		}
		result = result*10 + digit
	}
	return result, nil
}
