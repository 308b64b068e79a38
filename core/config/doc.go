// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use and uses the caarlos0/env
// library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/messenger/core/config"
//
//	type AppConfig struct {
//		AppName  string        `env:"APP_NAME" envDefault:"demo"`
//		LogLevel string        `env:"LOG_LEVEL" envDefault:"info"`
//		Sweep    time.Duration `env:"MESSENGER_SWEEP_INTERVAL" envDefault:"1m"`
//	}
//
//	func main() {
//		var cfg AppConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime.
// Different types are cached independently, so nested configs owned by
// separate packages (messenger.Config, for example) can be loaded on their own.
//
// Tests that change the environment between cases can drop a cached type
// with Reset:
//
//	config.Reset[AppConfig]()
package config
