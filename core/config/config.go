package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	envFileOnce sync.Once

	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}
)

func loadEnvFile() {
	envFileOnce.Do(func() {
		_ = godotenv.Load() // a missing .env file is not an error
	})
}

// Load populates cfg from environment variables using caarlos0/env struct
// tags, caching the result by cfg's type so a second Load for the same type
// returns the cached value instead of re-parsing the environment.
func Load[T any](cfg *T) error {
	loadEnvFile()

	t := reflect.TypeOf(*cfg)

	cacheMu.Lock()
	if cached, ok := cache[t]; ok {
		cacheMu.Unlock()
		*cfg = *(cached.(*T))
		return nil
	}
	cacheMu.Unlock()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cacheMu.Lock()
	stored := *cfg
	cache[t] = &stored
	cacheMu.Unlock()

	return nil
}

// MustLoad calls Load and panics if it returns an error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
