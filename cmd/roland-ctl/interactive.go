package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/roland-remote/roland-go/pkg/service"
	"github.com/roland-remote/roland-go/pkg/wire"
)

// Shell is the interactive command loop of roland-ctl.
type Shell struct {
	svc    *service.DeviceService
	logger *slog.Logger
	rl     *readline.Instance
}

// NewShell creates the interactive shell for a connected service.
func NewShell(svc *service.DeviceService, logger *slog.Logger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "roland> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{svc: svc, logger: logger, rl: rl}, nil
}

// Run reads and executes commands until quit, EOF or context cancellation.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "version", "v":
			s.cmdVersion()

		case "read", "r":
			s.cmdRead(args)

		case "write", "w":
			s.cmdWrite(args)

		case "raw":
			s.cmdRaw(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
VR-6HD Commands:
  version              - Query product name and firmware version
  read <addr> [size]   - Read a parameter (address = 6 hex digits)
  write <addr> <value> - Write a parameter value (0-255, 0x.. for hex)
  raw <command>        - Send a hand-typed protocol command, e.g. DTH:010000,7F;
  status               - Show connection status

  help                 - Show this help
  quit                 - Exit the shell`)
}

func (s *Shell) cmdVersion() {
	product, version, err := s.svc.GetVersion()
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s version %s\n", product, version)
}

func (s *Shell) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: read <addr> [size]")
		return
	}

	addr, err := wire.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}

	size := uint32(1)
	if len(args) >= 2 {
		n, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil || n == 0 || n > 0xFFFFFF {
			fmt.Fprintf(s.rl.Stdout(), "Invalid size: %s (1 to 16777215)\n", args[1])
			return
		}
		size = uint32(n)
	}

	value, err := s.svc.ReadParameter(addr, size)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %d (0x%02X)\n", addr.Hex(), value, value)
}

func (s *Shell) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: write <addr> <value>")
		return
	}

	addr, err := wire.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}

	value, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid value: %s (0 to 255)\n", args[1])
		return
	}

	if err := s.svc.WriteParameter(addr, uint8(value)); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s <- %d OK\n", addr.Hex(), uint8(value))
}

func (s *Shell) cmdRaw(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: raw <command>   e.g. raw RQH:010000,000001;")
		return
	}

	cmd, err := parseRawCommand(strings.Join(args, ""))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid command: %v\n", err)
		return
	}

	resp, err := s.svc.Exchange(cmd)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.printResponse(resp)
}

func (s *Shell) cmdStatus() {
	fmt.Fprintf(s.rl.Stdout(), "Device:    %s\n", s.svc.Address())
	fmt.Fprintf(s.rl.Stdout(), "State:     %s\n", s.svc.ConnectionState())
	fmt.Fprintf(s.rl.Stdout(), "Connected: %v\n", s.svc.Connected())
}

func (s *Shell) printResponse(resp wire.Response) {
	switch r := resp.(type) {
	case wire.Acknowledge:
		fmt.Fprintln(s.rl.Stdout(), "ACK")
	case wire.Data:
		fmt.Fprintf(s.rl.Stdout(), "%s = %d (0x%02X)\n", r.Address.Hex(), r.Value, r.Value)
	case wire.Version:
		fmt.Fprintf(s.rl.Stdout(), "%s version %s\n", r.Product, r.Version)
	case wire.DeviceError:
		fmt.Fprintf(s.rl.Stdout(), "Device error: %s\n", r.Code)
	default:
		fmt.Fprintf(s.rl.Stdout(), "%v\n", resp)
	}
}

// parseRawCommand turns hand-typed protocol text into a Command. The
// trailing terminator is optional; keywords and hex fields are accepted
// in either case.
func parseRawCommand(input string) (wire.Command, error) {
	text := strings.TrimSpace(input)
	text = strings.TrimSuffix(text, string(wire.Terminator))
	upper := strings.ToUpper(text)

	switch {
	case upper == "VER":
		return wire.GetVersion{}, nil

	case strings.HasPrefix(upper, "DTH:"):
		addr, field, err := splitRawBody(text[len("DTH:"):])
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad value field %q: %w", field, wire.ErrInvalidValue)
		}
		return wire.WriteParameter{Address: addr, Value: uint8(value)}, nil

	case strings.HasPrefix(upper, "RQH:"):
		addr, field, err := splitRawBody(text[len("RQH:"):])
		if err != nil {
			return nil, err
		}
		if len(field) != 6 {
			return nil, fmt.Errorf("size field must be 6 hex digits, got %q", field)
		}
		size, err := strconv.ParseUint(field, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad size field %q: %w", field, wire.ErrInvalidValue)
		}
		return wire.ReadParameter{Address: addr, Size: uint32(size)}, nil

	default:
		return nil, fmt.Errorf("unknown command %q (use VER, DTH:... or RQH:...)", text)
	}
}

func splitRawBody(body string) (wire.Address, string, error) {
	addrField, valueField, ok := strings.Cut(body, ",")
	if !ok {
		return wire.Address{}, "", fmt.Errorf("body %q needs an address and a value field", body)
	}

	addr, err := wire.ParseAddress(addrField)
	if err != nil {
		return wire.Address{}, "", err
	}
	return addr, valueField, nil
}
