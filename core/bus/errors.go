package bus

import "errors"

var (
	// ErrEmptyURL is returned when a Config carries no broker URL.
	ErrEmptyURL = errors.New("bus: empty broker url")
	// ErrNotConnected is returned when an operation is attempted against a
	// domain that has no cached client and dialing failed.
	ErrNotConnected = errors.New("bus: not connected")
	// ErrHealthcheckFailed wraps the underlying cause of a failed Healthcheck.
	ErrHealthcheckFailed = errors.New("bus: healthcheck failed")
	// ErrClosed is returned by operations attempted on a closed Pool.
	ErrClosed = errors.New("bus: pool closed")
)
