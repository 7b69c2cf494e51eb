// Package session models a ServerSession: the worker-side view of one
// conversation thread with a single calling client, used to send Result and
// Status messages back without the method handler needing to know about
// addressing or the bus.
package session
