package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roland-remote/roland-go/pkg/service"
)

// Config holds the roland-ctl configuration. All fields can be set from
// a YAML file; command-line flags and positional arguments override it.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig contains the device connection settings.
type DeviceConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	STX            bool   `yaml:"stx"`
	DialTimeoutSec int    `yaml:"dial_timeout"`  // seconds
	ReadTimeoutSec int    `yaml:"read_timeout"`  // seconds
	AutoReconnect  bool   `yaml:"auto_reconnect"`
}

// LoggingConfig contains console and protocol capture settings.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	ProtocolLog string `yaml:"protocol_log"`
}

// DefaultConfig returns a configuration with usable defaults.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Port: service.DefaultPort,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads and parses the configuration file, applying defaults
// for fields the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if err := c.Device.Validate(); err != nil {
		return fmt.Errorf("device config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates the device connection settings.
func (d *DeviceConfig) Validate() error {
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", d.Port)
	}

	if d.DialTimeoutSec < 0 {
		return fmt.Errorf("dial_timeout must not be negative, got %d", d.DialTimeoutSec)
	}

	if d.ReadTimeoutSec < 0 {
		return fmt.Errorf("read_timeout must not be negative, got %d", d.ReadTimeoutSec)
	}

	return nil
}

// Validate validates the logging settings.
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, got %q", l.Level)
	}
}
