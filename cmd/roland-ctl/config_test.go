package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 23, config.Device.Port)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.Device.STX)
	require.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
device:
  host: 192.168.0.10
  port: 8023
  stx: true
  read_timeout: 10
logging:
  level: debug
  protocol_log: session.cbor
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.0.10", config.Device.Host)
	assert.Equal(t, 8023, config.Device.Port)
	assert.True(t, config.Device.STX)
	assert.Equal(t, 10, config.Device.ReadTimeoutSec)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "session.cbor", config.Logging.ProtocolLog)
}

func TestLoadConfigDefaultsApply(t *testing.T) {
	path := writeConfigFile(t, `
device:
  host: vr6hd.local
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "vr6hd.local", config.Device.Host)
	assert.Equal(t, 23, config.Device.Port)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfigFile(t, "device: [not a mapping")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "port too low",
			mutate: func(c *Config) { c.Device.Port = 0 },
			errMsg: "port",
		},
		{
			name:   "port too high",
			mutate: func(c *Config) { c.Device.Port = 70000 },
			errMsg: "port",
		},
		{
			name:   "negative dial timeout",
			mutate: func(c *Config) { c.Device.DialTimeoutSec = -1 },
			errMsg: "dial_timeout",
		},
		{
			name:   "negative read timeout",
			mutate: func(c *Config) { c.Device.ReadTimeoutSec = -5 },
			errMsg: "read_timeout",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			errMsg: "level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
