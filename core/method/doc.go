// Package method provides the Registry a service worker consults to
// dispatch an incoming Request: each registered name maps to a
// Descriptor carrying the handler, its expected argument arity, and
// whether its parameters must be redacted from logs.
package method
