package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/messenger/core/config"
	"github.com/dmitrymomot/messenger/core/logger"
	"github.com/dmitrymomot/messenger/core/messenger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	mcfg, err := messenger.LoadConfig()
	if err != nil {
		log.Error("Failed to load messenger config", logger.Component("config"), logger.Error(err))
		os.Exit(1)
	}

	// Metrics are collected in-process and logged on exit.
	var reader *sdkmetric.ManualReader
	if mcfg.MetricsEnabled {
		reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		otel.SetMeterProvider(provider)
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				log.Warn("Failed to shut down meter provider", logger.Component("metrics"), logger.Error(err))
			}
		}()
	}
	messenger.SetDefaultOptions(mcfg.Options(log)...)

	first := newTextView("TextView1")
	second := newTextView("TextView2")

	reg := messenger.Of[textMessage]()
	messenger.MustRegister(reg, first,
		messenger.WithName[textMessage](first.name),
		messenger.WithFilter(func(msg textMessage) bool { return msg.Key == keyFirst }),
	)
	messenger.MustRegister(reg, second,
		messenger.WithName[textMessage](second.name),
		messenger.WithFilter(func(msg textMessage) bool { return msg.Key == keySecond }),
	)

	reg.Send(textMessage{Key: keyFirst, Value: "Received!!!"})
	first.Render(os.Stdout)
	second.Render(os.Stdout)

	if cfg.RunFor > 0 {
		if err := run(ctx, cfg, mcfg, log, reg); err != nil {
			log.Error("Demo stopped with error", logger.Error(err))
			os.Exit(1)
		}
		first.Render(os.Stdout)
		second.Render(os.Stdout)
	}

	if reader != nil {
		reportMetrics(ctx, log, reader)
	}

	stats := reg.Stats()
	log.Info("Application stopped",
		logger.Count("registered", stats.Registered),
		slog.Int64("sent", stats.Sent),
		slog.Int64("delivered", stats.Delivered),
		slog.Int64("filtered", stats.Filtered),
	)
}

func newLogger(cfg Config) *slog.Logger {
	level := logger.WithLevel(logger.ParseLevel(cfg.LogLevel))
	switch cfg.Env {
	case "production":
		return logger.New(logger.WithProduction(cfg.AppName), level)
	case "staging":
		return logger.New(logger.WithStaging(cfg.AppName), level)
	default:
		return logger.New(logger.WithDevelopment(cfg.AppName), level)
	}
}

// run publishes alternating status messages until RunFor elapses or the
// process is interrupted. The sweeper runs alongside when enabled.
func run(ctx context.Context, cfg Config, mcfg messenger.Config, log *slog.Logger, reg *messenger.Registry[textMessage]) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.RunFor)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	if mcfg.SweepInterval > 0 {
		sweeper := messenger.NewSweeperFromConfig(mcfg, messenger.WithSweeperLogger(log))
		eg.Go(sweeper.Run(ctx))
	} else {
		log.Info("Sweeper disabled", logger.Component("messenger.sweeper"))
	}

	eg.Go(func() error {
		ticker := time.NewTicker(cfg.Tick)
		defer ticker.Stop()

		keys := [...]string{keyFirst, keySecond}
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
					return nil
				}
				return ctx.Err()
			case t := <-ticker.C:
				reg.Send(textMessage{
					Key:   keys[i%len(keys)],
					Value: fmt.Sprintf("tick %d at %s", i, t.Format(time.TimeOnly)),
				})
			}
		}
	})

	return eg.Wait()
}

func reportMetrics(ctx context.Context, log *slog.Logger, reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.WithoutCancel(ctx), &rm); err != nil {
		log.Warn("Failed to collect metrics", logger.Component("metrics"), logger.Error(err))
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			log.Info("Metric", logger.Component("metrics"), slog.String("name", m.Name), slog.Int64("value", total))
		}
	}
}
