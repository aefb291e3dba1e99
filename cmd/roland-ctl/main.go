// Command roland-ctl is a remote-control client for the Roland VR-6HD
// AV streaming mixer.
//
// It speaks the VR-6HD's ASCII control protocol over Telnet and offers
// a one-shot mode (query the firmware version and a sample parameter)
// and an interactive command shell.
//
// Usage:
//
//	roland-ctl [flags] <host> [port]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-stx                  Prefix commands with STX (RS-232 framing mode)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write protocol events to this file (CBOR)
//	-interactive          Enable interactive command mode
//
// Examples:
//
//	# Query version and parameter 000000, then exit
//	roland-ctl 192.168.0.10
//
//	# Interactive shell with protocol capture
//	roland-ctl -interactive -protocol-log session.cbor 192.168.0.10
//
// Interactive Commands:
//
//	version              - Query product name and firmware version
//	read <addr> [size]   - Read a parameter (address = 6 hex digits)
//	write <addr> <value> - Write a parameter value (0-255)
//	raw <command>        - Send a hand-typed protocol command
//	status               - Show connection status
//	quit                 - Exit the shell
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/roland-remote/roland-go/pkg/log"
	"github.com/roland-remote/roland-go/pkg/service"
	"github.com/roland-remote/roland-go/pkg/wire"
)

var flags struct {
	configFile  string
	stx         bool
	logLevel    string
	protocolLog string
	interactive bool
}

func init() {
	flag.StringVar(&flags.configFile, "config", "", "Configuration file path (YAML)")
	flag.BoolVar(&flags.stx, "stx", false, "Prefix commands with STX (RS-232 framing mode)")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.protocolLog, "protocol-log", "", "Write protocol events to this file (CBOR)")
	flag.BoolVar(&flags.interactive, "interactive", false, "Enable interactive command mode")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	config := DefaultConfig()
	if flags.configFile != "" {
		loaded, err := LoadConfig(flags.configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "roland-ctl: %v\n", err)
			return 1
		}
		config = loaded
	}

	// Flags override the config file.
	if flags.stx {
		config.Device.STX = true
	}
	if flags.logLevel != "" {
		config.Logging.Level = flags.logLevel
	}
	if flags.protocolLog != "" {
		config.Logging.ProtocolLog = flags.protocolLog
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "roland-ctl: %v\n", err)
		return 1
	}

	// Positional arguments: <host> [port].
	args := flag.Args()
	switch {
	case len(args) >= 1:
		config.Device.Host = args[0]
		if len(args) >= 2 {
			port, err := strconv.Atoi(args[1])
			if err != nil || port < 1 || port > 65535 {
				fmt.Fprintf(os.Stderr, "roland-ctl: invalid port %q\n", args[1])
				return 2
			}
			config.Device.Port = port
		}
	case config.Device.Host != "":
		// Host came from the config file.
	default:
		fmt.Fprintf(os.Stderr, "Usage: roland-ctl [flags] <host> [port]\n")
		flag.PrintDefaults()
		return 2
	}

	logger := setupLogging(config.Logging.Level)

	protocolLogger, cleanup, err := setupProtocolLog(config.Logging, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roland-ctl: %v\n", err)
		return 1
	}
	defer cleanup()

	svc := service.New(service.Config{
		Host:          config.Device.Host,
		Port:          config.Device.Port,
		STX:           config.Device.STX,
		DialTimeout:   time.Duration(config.Device.DialTimeoutSec) * time.Second,
		ReadTimeout:   time.Duration(config.Device.ReadTimeoutSec) * time.Second,
		AutoReconnect: config.Device.AutoReconnect && flags.interactive,
		Logger:        protocolLogger,
	})
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting", "address", svc.Address())
	if err := svc.Connect(ctx); err != nil {
		logger.Error("connection failed", "error", err)
		return 1
	}
	logger.Info("connected", "address", svc.Address())

	if flags.interactive {
		shell, err := NewShell(svc, logger)
		if err != nil {
			logger.Error("failed to start shell", "error", err)
			return 1
		}
		shell.Run(ctx)
		return 0
	}

	return oneShot(svc, logger)
}

// oneShot queries the firmware version and reads the first parameter
// of the address map, then exits.
func oneShot(svc *service.DeviceService, logger *slog.Logger) int {
	product, version, err := svc.GetVersion()
	if err != nil {
		logger.Error("version query failed", "error", err)
		return 1
	}
	fmt.Printf("Product: %s\nVersion: %s\n", product, version)

	addr := wire.Address{}
	value, err := svc.ReadParameter(addr, 1)
	if err != nil {
		logger.Error("parameter read failed", "address", addr.Hex(), "error", err)
		return 1
	}
	fmt.Printf("Parameter %s = %d\n", addr.Hex(), value)

	return 0
}

func setupLogging(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// setupProtocolLog assembles the protocol event pipeline: a CBOR file
// logger when -protocol-log is set, plus console output at debug level.
func setupProtocolLog(cfg LoggingConfig, logger *slog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	cleanup := func() {}

	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to open protocol log: %w", err)
		}
		loggers = append(loggers, fl)
		cleanup = func() { _ = fl.Close() }
	}

	if cfg.Level == "debug" {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return loggers[0], cleanup, nil
	default:
		return log.NewMultiLogger(loggers...), cleanup, nil
	}
}
