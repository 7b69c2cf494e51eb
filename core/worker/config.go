package worker

import "time"

// Config controls how long a Worker waits for its next message and how
// many non-connected requests it serves before retiring so the Supervisor
// can recycle it.
type Config struct {
	MaxRequests  int           `env:"OSRF_WORKER_MAX_REQUESTS" envDefault:"5000"`
	Keepalive    time.Duration `env:"OSRF_WORKER_KEEPALIVE" envDefault:"5s"`
	PollInterval time.Duration `env:"OSRF_WORKER_POLL_INTERVAL" envDefault:"5s"`
}

// DefaultConfig returns the Config a Worker uses when none is supplied.
func DefaultConfig() Config {
	return Config{
		MaxRequests:  5000,
		Keepalive:    5 * time.Second,
		PollInterval: 5 * time.Second,
	}
}
