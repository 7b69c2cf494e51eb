package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start when the server has been
	// started and not yet stopped.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
