package supervisor

import "errors"

// ErrNoWorkers is returned by Healthcheck when no worker slot is currently running.
var ErrNoWorkers = errors.New("supervisor: no workers running")
