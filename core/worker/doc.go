// Package worker implements the service worker's dispatch loop: a Worker
// owns one bus.Conn bound to its own client address, pulls Envelopes
// addressed to it, and dispatches each inner Message to the method
// registered under its name. It reports its lifecycle (Idle/Active/Done) to
// a Supervisor over a bounded channel.
package worker
