package main

import "time"

// Config is the demo application config.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"messenger-demo"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RunFor keeps the demo alive after the initial exchange, publishing a
	// status message every Tick. Zero exits right after the exchange.
	RunFor time.Duration `env:"DEMO_RUN_FOR" envDefault:"0s"`
	Tick   time.Duration `env:"DEMO_TICK" envDefault:"1s"`
}
