package server

import "errors"

var (
	// ErrPoolSaturated is returned when an incoming connection is rejected
	// because MaxClients sessions are already admitted.
	ErrPoolSaturated = errors.New("server: client pool saturated")
	// ErrMissingBusPool is returned by New when no bus.Pool was supplied.
	ErrMissingBusPool = errors.New("server: bus pool is required")
)
