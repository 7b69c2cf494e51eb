package bus

import "time"

// Config binds the environment variables that control how Pool dials the
// message bus broker, in the retry/timeout shape go-redis callers expect.
type Config struct {
	URL            string        `env:"OSRF_BUS_URL" envDefault:"redis://127.0.0.1:6379/0"`
	Domain         string        `env:"OSRF_BUS_DOMAIN" envDefault:"private.localhost"`
	ConnectTimeout time.Duration `env:"OSRF_BUS_CONNECT_TIMEOUT" envDefault:"5s"`
	RetryAttempts  int           `env:"OSRF_BUS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"OSRF_BUS_RETRY_INTERVAL" envDefault:"500ms"`
}

// DefaultConfig returns the Config that results from loading no environment
// variables at all but OSRF_BUS_URL.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		Domain:         "private.localhost",
		ConnectTimeout: 5 * time.Second,
		RetryAttempts:  3,
		RetryInterval:  500 * time.Millisecond,
	}
}
