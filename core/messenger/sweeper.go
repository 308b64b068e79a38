package messenger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/messenger/core/logger"
)

// Sweeper periodically removes stale entries. Registries only drop entries
// for reclaimed receivers when CheckAlive runs; a Sweeper runs it on a timer
// so long-lived processes do not accumulate them.
//
// Example:
//
//	sweeper := messenger.NewSweeper(
//	    messenger.WithSweepInterval(time.Minute),
//	    messenger.WithSweeperLogger(log),
//	)
//	eg.Go(sweeper.Run(ctx))
type Sweeper struct {
	interval time.Duration
	sweep    func() int
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval sets how often stale entries are removed.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSweeperLogger configures structured logging for the sweeper.
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweepTargets limits sweeping to the given registries.
// By default every registry created by Of is swept.
func WithSweepTargets(targets ...interface{ CheckAlive() int }) SweeperOption {
	return func(s *Sweeper) {
		if len(targets) == 0 {
			return
		}
		s.sweep = func() int {
			removed := 0
			for _, t := range targets {
				removed += t.CheckAlive()
			}
			return removed
		}
	}
}

// NewSweeper creates a sweeper. The default interval is one minute.
func NewSweeper(opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		interval: time.Minute,
		sweep:    SweepAll,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSweeperFromConfig creates a sweeper using the interval from cfg.
// Explicit options are applied after the config.
func NewSweeperFromConfig(cfg Config, opts ...SweeperOption) *Sweeper {
	return NewSweeper(append([]SweeperOption{WithSweepInterval(cfg.SweepInterval)}, opts...)...)
}

// Start sweeps on every tick until ctx is cancelled or Stop is called.
// It blocks; use Run for the errgroup pattern or call it in a goroutine.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidSweepInterval
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrSweeperAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	defer close(done)
	defer func() {
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
	}()

	s.logger.InfoContext(ctx, "messenger sweeper started",
		logger.Component("messenger.sweeper"),
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("messenger sweeper stopped", logger.Component("messenger.sweeper"))
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if removed := s.sweep(); removed > 0 {
				s.logger.DebugContext(ctx, "stale receivers removed",
					logger.Component("messenger.sweeper"),
					logger.Count("removed", removed),
					logger.Elapsed(start))
			}
		}
	}
}

// Stop cancels a running sweeper and waits for Start to return.
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return ErrSweeperNotStarted
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Run provides errgroup compatibility. The returned function blocks until
// ctx is cancelled and treats cancellation as a clean shutdown.
func (s *Sweeper) Run(ctx context.Context) func() error {
	return func() error {
		err := s.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}
