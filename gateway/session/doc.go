// Package session implements the gateway's per-WebSocket main loop: an
// inbound reader goroutine, an outbound bus-poller goroutine, and a single
// main goroutine that owns every piece of mutable session state and is the
// only goroutine allowed to write to the WebSocket or the bus connection.
//
// The main goroutine is the single consumer of a buffered event channel the
// other two feed; the only cross-goroutine state besides that channel is a
// pair of atomic shutdown flags, one per session and one shared across the
// whole server process.
package session
