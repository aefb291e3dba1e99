package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roland-remote/roland-go/pkg/wire"
)

func TestParseRawCommand(t *testing.T) {
	tests := []struct {
		input string
		want  wire.Command
	}{
		{"VER;", wire.GetVersion{}},
		{"VER", wire.GetVersion{}},
		{"ver;", wire.GetVersion{}},
		{"DTH:010203,7F;", wire.WriteParameter{Address: wire.Address{High: 0x01, Mid: 0x02, Low: 0x03}, Value: 0x7F}},
		{"dth:abcdef,0a", wire.WriteParameter{Address: wire.Address{High: 0xAB, Mid: 0xCD, Low: 0xEF}, Value: 0x0A}},
		{"RQH:010203,000010;", wire.ReadParameter{Address: wire.Address{High: 0x01, Mid: 0x02, Low: 0x03}, Size: 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRawCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRawCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown keyword", "FOO:010203,01;"},
		{"response keyword", "ERR:5;"},
		{"short address", "DTH:0102,01;"},
		{"address not hex", "DTH:GGGGGG,01;"},
		{"missing comma", "DTH:010203;"},
		{"value not hex", "DTH:010203,ZZ;"},
		{"value too wide", "DTH:010203,100;"},
		{"size not six digits", "RQH:010203,10;"},
		{"size not hex", "RQH:010203,00000G;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRawCommand(tt.input)
			assert.Error(t, err)
		})
	}
}
