package messenger

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dmitrymomot/messenger/core/logger"
)

// DefaultMeterName is the instrumentation scope used by NewDefaultMetricsRecorder.
const DefaultMeterName = "messenger"

// MetricsRecorder records registry activity.
// Use NewMetricsRecorder for OpenTelemetry metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSend records one Send call and how its entries were handled.
	RecordSend(ctx context.Context, messageType string, delivered, filtered, stale int)

	// RecordSweep records stale entries removed by CheckAlive.
	RecordSweep(ctx context.Context, messageType string, removed int)
}

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordSend does nothing.
func (NoopMetrics) RecordSend(_ context.Context, _ string, _, _, _ int) {}

// RecordSweep does nothing.
func (NoopMetrics) RecordSweep(_ context.Context, _ string, _ int) {}

type otelMetrics struct {
	sent      metric.Int64Counter
	delivered metric.Int64Counter
	filtered  metric.Int64Counter
	stale     metric.Int64Counter
	swept     metric.Int64Counter
}

// NewMetricsRecorder creates a MetricsRecorder backed by the given OpenTelemetry meter.
//
// Example:
//
//	recorder, err := messenger.NewMetricsRecorder(provider.Meter("myapp"))
func NewMetricsRecorder(meter metric.Meter) (MetricsRecorder, error) {
	sent, err := meter.Int64Counter("messenger.sent",
		metric.WithDescription("Number of messages sent"),
	)
	if err != nil {
		return nil, err
	}

	delivered, err := meter.Int64Counter("messenger.delivered",
		metric.WithDescription("Number of messages delivered to receivers"),
	)
	if err != nil {
		return nil, err
	}

	filtered, err := meter.Int64Counter("messenger.filtered",
		metric.WithDescription("Number of deliveries rejected by a filter"),
	)
	if err != nil {
		return nil, err
	}

	stale, err := meter.Int64Counter("messenger.stale",
		metric.WithDescription("Number of entries skipped because the receiver was reclaimed"),
	)
	if err != nil {
		return nil, err
	}

	swept, err := meter.Int64Counter("messenger.swept",
		metric.WithDescription("Number of stale entries removed by CheckAlive"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		sent:      sent,
		delivered: delivered,
		filtered:  filtered,
		stale:     stale,
		swept:     swept,
	}, nil
}

// NewDefaultMetricsRecorder uses the global OTel meter provider.
// If instrument creation fails, it logs a warning to log (which may be nil)
// and returns NoopMetrics.
//
// Configure the provider first:
//
//	otel.SetMeterProvider(yourProvider)
//	recorder := messenger.NewDefaultMetricsRecorder("myapp", log)
func NewDefaultMetricsRecorder(name string, log *slog.Logger) MetricsRecorder {
	if name == "" {
		name = DefaultMeterName
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m, err := NewMetricsRecorder(otel.Meter(name))
	if err != nil {
		log.Warn("metrics initialization failed, using no-op recorder",
			logger.Component("messenger.metrics"),
			logger.Error(err))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordSend(ctx context.Context, messageType string, delivered, filtered, stale int) {
	attrs := metric.WithAttributes(attribute.String("message_type", messageType))

	m.sent.Add(ctx, 1, attrs)
	if delivered > 0 {
		m.delivered.Add(ctx, int64(delivered), attrs)
	}
	if filtered > 0 {
		m.filtered.Add(ctx, int64(filtered), attrs)
	}
	if stale > 0 {
		m.stale.Add(ctx, int64(stale), attrs)
	}
}

func (m *otelMetrics) RecordSweep(ctx context.Context, messageType string, removed int) {
	if removed <= 0 {
		return
	}
	m.swept.Add(ctx, int64(removed), metric.WithAttributes(attribute.String("message_type", messageType)))
}
