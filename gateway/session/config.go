package session

import "time"

// Config sizes the admission and shutdown behavior of one Session. The
// Gateway Server builds one Config per connection from its own
// environment-bound Config; Config itself carries no env tags since it is
// never loaded directly.
type Config struct {
	// MaxParallel bounds concurrent in-flight RPCs on this connection.
	MaxParallel int
	// MaxBacklog bounds queued-but-not-yet-relayed inbound frames.
	MaxBacklog int
	// MaxMessageSize bounds the size in bytes of a single inbound frame.
	MaxMessageSize int64
	// MaxThreadCacheSize bounds the number of thread-routing entries kept
	// before the oldest is evicted.
	MaxThreadCacheSize int
	// BusPollInterval is how long the outbound goroutine blocks on each
	// Bus.Recv before looping to recheck the shutdown flags.
	BusPollInterval time.Duration
	// ShutdownMaxWait bounds how long the session drains in-flight work
	// after a shutdown is observed before forcing the connection closed.
	ShutdownMaxWait time.Duration
	// ShutdownPollInterval is the main loop's select timeout, bounding how
	// quickly a shutdown flag flip is noticed.
	ShutdownPollInterval time.Duration
}

// DefaultConfig mirrors the literal defaults named in the gateway's
// environment variable table.
func DefaultConfig() Config {
	return Config{
		MaxParallel:          8,
		MaxBacklog:           1000,
		MaxMessageSize:       10 * 1024 * 1024,
		MaxThreadCacheSize:   256,
		BusPollInterval:      time.Second,
		ShutdownMaxWait:      30 * time.Second,
		ShutdownPollInterval: 3 * time.Second,
	}
}
