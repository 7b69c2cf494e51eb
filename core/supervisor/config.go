package supervisor

import "time"

// Config controls how many workers a Supervisor keeps running for a
// service.
type Config struct {
	MinWorkers int `env:"OSRF_SUPERVISOR_MIN_WORKERS" envDefault:"1"`
	MaxWorkers int `env:"OSRF_SUPERVISOR_MAX_WORKERS" envDefault:"8"`

	// ShutdownTimeout bounds how long Supervisor.Run waits for in-flight
	// worker slots to exit after cancellation before giving up and
	// returning anyway.
	ShutdownTimeout time.Duration `env:"OSRF_SUPERVISOR_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns the Config a Supervisor uses when none is supplied.
func DefaultConfig() Config {
	return Config{MinWorkers: 1, MaxWorkers: 8, ShutdownTimeout: 30 * time.Second}
}
