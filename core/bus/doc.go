// Package bus provides the Conn abstraction used to exchange Envelopes with
// the message bus, a Redis-backed Pool implementation keyed by domain (one
// *redis.Client per domain, shared by every Conn dialed against it), and a
// Healthcheck suitable for wiring into core/health.Readiness.
//
// A second implementation, core/bus/busmem, satisfies the same Conn
// interface entirely in memory and is used by package tests that would
// otherwise require a live broker.
package bus
