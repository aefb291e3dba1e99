// Package log provides structured protocol logging for the Roland
// remote-control client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, service).
// It is separate from operational logging (slog) - protocol capture
// provides a complete machine-readable trace of every command and response
// exchanged with the device, for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For capture: write CBOR records to a file
//	cfg.Logger, _ = log.NewFileLogger("session.rlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw message text as sent/received (FrameEvent)
//   - Wire: decoded commands and responses (MessageEvent)
//   - Service: connection state changes (StateChangeEvent)
//
// Captured files can be read back with Reader.
package log
