// Package transport provides the Telnet/TCP transport for talking to
// Roland VR-6HD devices.
//
// The transport layer handles:
//   - TCP connections with bounded dial/read/write timeouts
//   - Terminator-based message framing (read until ';' or control signal)
//   - Half-duplex command/response exchange (one request in flight)
//   - Optional RS-232 presentation mode (STX prefix on every command)
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   Commands / Responses (wire)  │
//	├────────────────────────────────┤
//	│  ';'-terminated ASCII messages │
//	├────────────────────────────────┤
//	│           TCP (Telnet)         │
//	└────────────────────────────────┘
//
// # Framing
//
// Device messages carry no length prefix. A message is complete when the
// accumulated bytes end with the ';' terminator, or when the buffer equals
// one of the single-byte/word control signals (ACK, XON, XOFF). The reader
// accumulates until the predicate holds, bounded by a configurable maximum
// buffer size.
//
// The protocol is strictly half-duplex: the device answers each request
// with exactly one response, and the client never pipelines requests.
package transport
