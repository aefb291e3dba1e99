package wire

import (
	"errors"
	"testing"
)

func TestParseResponse_Acknowledge(t *testing.T) {
	inputs := []string{
		"\x06",
		"ack",
		"\x02\x06",   // RS-232 with STX
		" ack\r\n",   // surrounding whitespace
		"\x02ack",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			resp, err := ParseResponse(input)
			if err != nil {
				t.Fatalf("ParseResponse(%q) returned error: %v", input, err)
			}
			if _, ok := resp.(Acknowledge); !ok {
				t.Fatalf("ParseResponse(%q) = %#v, want Acknowledge", input, resp)
			}
		})
	}
}

func TestParseResponse_Data(t *testing.T) {
	resp, err := ParseResponse("DTH:123456,01;")
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}

	data, ok := resp.(Data)
	if !ok {
		t.Fatalf("ParseResponse = %#v, want Data", resp)
	}
	if got := data.Address.Hex(); got != "123456" {
		t.Errorf("Address = %q, want %q", got, "123456")
	}
	if data.Value != 0x01 {
		t.Errorf("Value = 0x%02X, want 0x01", data.Value)
	}
}

func TestParseResponse_Data_LowercaseHex(t *testing.T) {
	resp, err := ParseResponse("DTH:abcdef,fe;")
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}

	data := resp.(Data)
	if got := data.Address.Hex(); got != "ABCDEF" {
		t.Errorf("Address = %q, want %q", got, "ABCDEF")
	}
	if data.Value != 0xFE {
		t.Errorf("Value = 0x%02X, want 0xFE", data.Value)
	}
}

func TestParseResponse_Data_BadAddress(t *testing.T) {
	// A malformed address fails the whole parse, it is never defaulted.
	_, err := ParseResponse("DTH:12345G,01;")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("ParseResponse = %v, want ErrInvalidAddress", err)
	}
}

func TestParseResponse_Data_BadValue(t *testing.T) {
	tests := []string{
		"DTH:123456,XY;",
		"DTH:123456,1;",
		"DTH:123456,001;",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseResponse(input)
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrInvalidValue", input, err)
			}
		})
	}
}

func TestParseResponse_Version(t *testing.T) {
	resp, err := ParseResponse("VER:VR-6HD,1.00;")
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}

	version, ok := resp.(Version)
	if !ok {
		t.Fatalf("ParseResponse = %#v, want Version", resp)
	}
	if version.Product != "VR-6HD" {
		t.Errorf("Product = %q, want %q", version.Product, "VR-6HD")
	}
	if version.Version != "1.00" {
		t.Errorf("Version = %q, want %q", version.Version, "1.00")
	}
}

func TestParseResponse_DeviceError(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
		known bool
	}{
		{"ERR:0;", CodeSyntaxError, true},
		{"ERR:4;", CodeInvalid, true},
		{"ERR:5;", CodeOutOfRange, true},
		{"ERR:6;", CodeNoStx, true},
		{"ERR:99;", ErrorCode(99), false},
		{"ERR:255;", ErrorCode(255), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			resp, err := ParseResponse(tt.input)
			if err != nil {
				t.Fatalf("ParseResponse(%q) returned error: %v", tt.input, err)
			}

			devErr, ok := resp.(DeviceError)
			if !ok {
				t.Fatalf("ParseResponse(%q) = %#v, want DeviceError", tt.input, resp)
			}
			if devErr.Code != tt.code {
				t.Errorf("Code = %d, want %d", devErr.Code, tt.code)
			}
			if devErr.Code.Known() != tt.known {
				t.Errorf("Known() = %v, want %v", devErr.Code.Known(), tt.known)
			}
		})
	}
}

func TestParseResponse_DeviceError_IsError(t *testing.T) {
	resp, err := ParseResponse("ERR:5;")
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}

	// DeviceError doubles as an error value.
	var devErr DeviceError
	if !errors.As(resp.(DeviceError), &devErr) {
		t.Fatal("DeviceError should satisfy errors.As")
	}
	if devErr.Code != CodeOutOfRange {
		t.Errorf("Code = %d, want %d", devErr.Code, CodeOutOfRange)
	}
}

func TestParseResponse_ErrorCode_Invalid(t *testing.T) {
	tests := []string{
		"ERR:x;",
		"ERR:4x;",
		"ERR:-1;",
		"ERR:+5;",
		"ERR:256;",  // overflows u8
		"ERR:1000;", // overflows u8
		"ERR:0",     // missing terminator
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseResponse(input)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrInvalidResponse", input, err)
			}
		})
	}
}

func TestParseResponse_MissingTerminator(t *testing.T) {
	tests := []string{
		"DTH:123456,01",
		"VER:VR-6HD,1.00",
		"ERR:0",
		"DTH:",
		"VER:",
		"ERR:",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseResponse(input)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrInvalidResponse", input, err)
			}
		})
	}
}

func TestParseResponse_WrongFieldCount(t *testing.T) {
	tests := []string{
		"DTH:123456;",
		"DTH:123456,01,02;",
		"VER:VR-6HD;",
		"VER:VR-6HD,1.00,extra;",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseResponse(input)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrInvalidResponse", input, err)
			}
		})
	}
}

func TestParseResponse_FlowControl(t *testing.T) {
	inputs := []string{"\x11", "xon", "\x13", "xoff", "\x02\x11", "\x02xoff"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			resp, err := ParseResponse(input)
			if resp != nil {
				t.Fatalf("ParseResponse(%q) = %#v, want nil response", input, resp)
			}
			if !errors.Is(err, ErrFlowControl) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrFlowControl", input, err)
			}
			// Flow control is still a parse failure for ordinary callers.
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("ErrFlowControl should match ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestParseResponse_Unrecognized(t *testing.T) {
	tests := []string{
		"",
		"garbage",
		"ACK",  // ack detection is case-sensitive
		"XON;",
		"DTX:123456,01;",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseResponse(input)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("ParseResponse(%q) = %v, want ErrInvalidResponse", input, err)
			}
		})
	}
}

func TestParseResponse_EmptyErrorCode(t *testing.T) {
	// Zero digits parse to code 0, matching device behavior for ERR:;
	resp, err := ParseResponse("ERR:;")
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if devErr := resp.(DeviceError); devErr.Code != CodeSyntaxError {
		t.Errorf("Code = %d, want %d", devErr.Code, CodeSyntaxError)
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{CodeSyntaxError, "SYNTAX_ERROR"},
		{CodeInvalid, "INVALID"},
		{CodeOutOfRange, "OUT_OF_RANGE"},
		{CodeNoStx, "NO_STX"},
		{ErrorCode(99), "UNKNOWN(99)"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
