// Package connection provides connection lifecycle management for
// long-running device control sessions.
//
// This package handles:
//   - Exponential backoff for reconnection attempts
//   - Jitter to avoid synchronized retries
//   - Connection state tracking
//   - Automatic reconnection when the device drops the link
//
// # Reconnection Strategy
//
// When the connection to the device is lost (power cycle, network blip),
// the manager retries with exponential backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s
//  3. Maximum delay: 30 seconds
//  4. Continue at 30s until successful
//  5. Reset to 1s on successful reconnection
//
// Each delay carries up to 25% random jitter.
//
// State transitions can be mirrored into the protocol event log by
// passing a log.Logger to the manager.
package connection
