package server

import (
	"fmt"
	"time"

	"github.com/evergreen-ils/osrf-go/gateway/session"
)

// Config binds every environment variable that tunes the gateway listener
// and the sessions it spawns.
type Config struct {
	Address string `env:"OSRF_WS_ADDRESS" envDefault:"127.0.0.1"`
	Port    int    `env:"OSRF_WS_PORT" envDefault:"7682"`

	MaxClients int `env:"OSRF_WS_MAX_CLIENTS" envDefault:"256"`

	MaxParallel          int           `env:"OSRF_WS_MAX_PARALLEL" envDefault:"8"`
	MaxBacklog           int           `env:"OSRF_WS_MAX_BACKLOG" envDefault:"1000"`
	MaxMessageSize       int64         `env:"OSRF_WS_MAX_MESSAGE_SIZE" envDefault:"10485760"`
	MaxThreadCacheSize   int           `env:"OSRF_WS_MAX_THREAD_CACHE_SIZE" envDefault:"256"`
	ShutdownMaxWait      time.Duration `env:"OSRF_WS_SHUTDOWN_MAX_WAIT" envDefault:"30s"`
	ShutdownPollInterval time.Duration `env:"OSRF_WS_SHUTDOWN_POLL_INTERVAL" envDefault:"3s"`

	// ConnectRateLimit bounds new connection attempts per minute per client
	// IP, throttling handshakes before the MaxClients admission pool is
	// ever consulted.
	ConnectRateLimit int `env:"OSRF_WS_CONNECT_RATE_LIMIT" envDefault:"20"`
}

// DefaultConfig mirrors the literal defaults named in the gateway's
// environment variable table.
func DefaultConfig() Config {
	return Config{
		Address:              "127.0.0.1",
		Port:                 7682,
		MaxClients:           256,
		MaxParallel:          8,
		MaxBacklog:           1000,
		MaxMessageSize:       10 * 1024 * 1024,
		MaxThreadCacheSize:   256,
		ShutdownMaxWait:      30 * time.Second,
		ShutdownPollInterval: 3 * time.Second,
		ConnectRateLimit:     20,
	}
}

// Addr renders the listen address Config describes.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

// sessionConfig derives the per-connection gateway/session.Config from the
// server-wide Config.
func (c Config) sessionConfig() session.Config {
	return session.Config{
		MaxParallel:          c.MaxParallel,
		MaxBacklog:           c.MaxBacklog,
		MaxMessageSize:       c.MaxMessageSize,
		MaxThreadCacheSize:   c.MaxThreadCacheSize,
		BusPollInterval:      time.Second,
		ShutdownMaxWait:      c.ShutdownMaxWait,
		ShutdownPollInterval: c.ShutdownPollInterval,
	}
}
