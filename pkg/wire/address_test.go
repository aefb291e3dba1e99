package wire

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAddress_Valid(t *testing.T) {
	tests := []struct {
		input string
		high  uint8
		mid   uint8
		low   uint8
	}{
		{"123456", 0x12, 0x34, 0x56},
		{"000000", 0x00, 0x00, 0x00},
		{"FFFFFF", 0xFF, 0xFF, 0xFF},
		{"abcdef", 0xAB, 0xCD, 0xEF},
		{"AbCdEf", 0xAB, 0xCD, 0xEF},
		{"00007f", 0x00, 0x00, 0x7F},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if err != nil {
				t.Fatalf("ParseAddress(%q) returned error: %v", tt.input, err)
			}
			if addr.High != tt.high {
				t.Errorf("High = 0x%02X, want 0x%02X", addr.High, tt.high)
			}
			if addr.Mid != tt.mid {
				t.Errorf("Mid = 0x%02X, want 0x%02X", addr.Mid, tt.mid)
			}
			if addr.Low != tt.low {
				t.Errorf("Low = 0x%02X, want 0x%02X", addr.Low, tt.low)
			}
		})
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []string{
		"",
		"12345",
		"1234567",
		"12345G",
		"12 456",
		"0x1234",
		"123,56",
		"żżżżżż",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAddress(input)
			if !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("ParseAddress(%q) = %v, want ErrInvalidAddress", input, err)
			}
		})
	}
}

func TestAddressHex(t *testing.T) {
	addr := NewAddress(0x12, 0x34, 0x56)
	if got := addr.Hex(); got != "123456" {
		t.Errorf("Hex() = %q, want %q", got, "123456")
	}
	if got := addr.String(); got != "123456" {
		t.Errorf("String() = %q, want %q", got, "123456")
	}
}

func TestAddressHex_ZeroPadded(t *testing.T) {
	addr := NewAddress(0x00, 0x01, 0x0A)
	if got := addr.Hex(); got != "00010A" {
		t.Errorf("Hex() = %q, want %q", got, "00010A")
	}
}

func TestAddressAppendHex(t *testing.T) {
	addr := NewAddress(0xDE, 0xAD, 0x0F)
	buf := addr.AppendHex([]byte("x="))
	if got := string(buf); got != "x=DEAD0F" {
		t.Errorf("AppendHex = %q, want %q", got, "x=DEAD0F")
	}
}

// Hex must be the inverse of ParseAddress for canonical input: for every
// valid 6-digit hex string s, ParseAddress(s).Hex() == upper(s).
func TestAddressHexRoundTrip(t *testing.T) {
	inputs := []string{
		"000000", "000001", "00007F", "010203",
		"123456", "7f7f7f", "abcdef", "FFFFFF",
	}

	for _, s := range inputs {
		addr, err := ParseAddress(s)
		if err != nil {
			t.Fatalf("ParseAddress(%q) returned error: %v", s, err)
		}
		if got, want := addr.Hex(), strings.ToUpper(s); got != want {
			t.Errorf("ParseAddress(%q).Hex() = %q, want %q", s, got, want)
		}
	}
}
