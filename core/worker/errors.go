package worker

import "errors"

// ErrNotRunning is returned by Healthcheck when a Worker has no bound Conn.
var ErrNotRunning = errors.New("worker: not running")
