// Package wire implements the ASCII wire format spoken by Roland VR-6HD
// devices over their LAN (Telnet) and RS-232 remote-control interfaces.
//
// The codec is a pure, stateless request/response mapper. All transport
// concerns (connections, buffering, timeouts) live in pkg/transport.
//
// # Grammar
//
// Outgoing commands:
//
//	DTH:AAAAAA,VV;       write one byte VV at address AAAAAA
//	RQH:AAAAAA,SSSSSS;   read SSSSSS bytes starting at address AAAAAA
//	VER;                 request version information
//
// Incoming responses:
//
//	0x06 or "ack"        write acknowledged
//	DTH:AAAAAA,VV;       read result
//	VER:product,version; version information
//	ERR:code;            device rejected the request (decimal code)
//
// AAAAAA is a 6-hex-digit SysEx address, VV a 2-hex-digit byte value and
// SSSSSS a 6-hex-digit (24-bit) size. All hex emitted by this package is
// uppercase; parsing accepts either case.
//
// On RS-232 every command is prefixed with a single STX byte (0x02); the
// Telnet variant omits it. This is a per-call presentation toggle, the
// grammar is otherwise identical. Parsing strips one leading STX if present.
//
// XON (0x11/"xon") and XOFF (0x13/"xoff") are flow-control signals, not
// protocol responses. ParseResponse reports them as ErrFlowControl so a
// caller can never mistake flow control for data.
//
// Commands and responses are disjoint grammars: ParseResponse does not
// accept RQH or bare VER; messages, and that asymmetry is intentional.
package wire
