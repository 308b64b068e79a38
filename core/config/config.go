package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)
)

// Load parses environment variables into cfg. The first call for a given
// type parses the environment; later calls copy the cached value.
// A .env file in the working directory is loaded once, if present.
// Variables already set in the environment take precedence over .env.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil destination")
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}
	cache[key] = parsed
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on error. Useful at application startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops the cached value for T so the next Load reads the environment again.
func Reset[T any]() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	delete(cache, reflect.TypeFor[T]())
}
