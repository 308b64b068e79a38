package messenger

import (
	"io"
	"log/slog"
)

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics MetricsRecorder
}

func defaultOptions() options {
	return options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NoopMetrics{},
	}
}

// WithLogger configures structured logging for registry operations.
// Registration changes and sweeps are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the recorder used to count sends, deliveries and sweeps.
// Defaults to NoopMetrics.
//
// Example:
//
//	recorder, err := messenger.NewMetricsRecorder(otel.Meter("app"))
//	if err != nil {
//	    return err
//	}
//	messenger.SetDefaultOptions(messenger.WithMetrics(recorder))
func WithMetrics(recorder MetricsRecorder) Option {
	return func(o *options) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// RegisterOption configures a single registration.
type RegisterOption[T any] func(*entry[T])

// WithFilter restricts delivery to messages for which f returns true.
//
// Example:
//
//	reg.Register(view, messenger.WithFilter(func(msg StatusChanged) bool {
//	    return msg.Key == "header"
//	}))
func WithFilter[T any](f func(msg T) bool) RegisterOption[T] {
	return func(e *entry[T]) {
		if f != nil {
			e.filter = Filter[T](f)
		}
	}
}

// WithName attaches a label to the registration. It shows up in Entries and logs.
// The message type cannot be inferred from the label, so it is spelled out:
//
//	reg.Register(view, messenger.WithName[StatusChanged]("header"))
func WithName[T any](name string) RegisterOption[T] {
	return func(e *entry[T]) {
		e.name = name
	}
}
