package messenger

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/messenger/core/config"
)

// Config holds environment-driven settings for the messenger runtime.
type Config struct {
	SweepInterval  time.Duration `env:"MESSENGER_SWEEP_INTERVAL" envDefault:"1m"`
	MetricsEnabled bool          `env:"MESSENGER_METRICS_ENABLED" envDefault:"false"`
	MeterName      string        `env:"MESSENGER_METER_NAME" envDefault:"messenger"`
}

// DefaultConfig returns the defaults used when no environment is set.
func DefaultConfig() Config {
	return Config{
		SweepInterval:  time.Minute,
		MetricsEnabled: false,
		MeterName:      DefaultMeterName,
	}
}

// LoadConfig reads Config from the environment (and .env, if present).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the config into registry options suitable for
// SetDefaultOptions. A nil log leaves the default discard logger in place.
// With metrics enabled the recorder uses the global meter provider, so set
// it before calling Options.
//
// Example:
//
//	otel.SetMeterProvider(provider)
//	messenger.SetDefaultOptions(cfg.Options(log)...)
func (c Config) Options(log *slog.Logger) []Option {
	opts := []Option{WithLogger(log)}
	if c.MetricsEnabled {
		opts = append(opts, WithMetrics(NewDefaultMetricsRecorder(c.MeterName, log)))
	}
	return opts
}
