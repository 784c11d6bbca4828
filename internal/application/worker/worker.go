package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTickInterval is the refresh period of the task clock.
const DefaultTickInterval = time.Second

// Ticker advances the task collection against the current time and returns
// the IDs of the tasks it auto-completed.
type Ticker interface {
	Tick(ctx context.Context) ([]string, error)
}

// Worker drives a Ticker on a fixed interval.
type Worker struct {
	ticker           Ticker
	tickInterval     time.Duration
	operationTimeout time.Duration // Timeout for a single tick, including persistence
	wg               sync.WaitGroup
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithTickInterval sets how often the worker ticks.
func WithTickInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.tickInterval = d
		}
	}
}

// WithOperationTimeout sets the timeout for a single tick.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.operationTimeout = d
		}
	}
}

// New creates a new Worker for the given Ticker.
func New(ticker Ticker, opts ...Option) *Worker {
	w := &Worker{
		ticker:           ticker,
		tickInterval:     DefaultTickInterval,
		operationTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start runs the tick loop until ctx is cancelled, then waits for an
// in-flight tick to finish and returns nil.
// A tick still running when the next one is due causes that one to be skipped,
// so ticks never overlap.
func (w *Worker) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "Tick worker started", "interval", w.tickInterval)

	// Catch up on deadlines that passed while the process was down.
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	var running sync.Mutex
	for {
		select {
		case <-ticker.C:
			if !running.TryLock() {
				slog.DebugContext(ctx, "Previous tick still running, skipping")
				continue
			}
			w.wg.Go(func() {
				defer running.Unlock()
				w.RunOnce(ctx)
			})
		case <-ctx.Done():
			slog.InfoContext(ctx, "Shutdown requested, waiting for in-flight tick...")
			w.wg.Wait()
			slog.InfoContext(ctx, "Tick worker stopped gracefully")
			return nil
		}
	}
}

// RunOnce executes a single tick bounded by the operation timeout.
// The tick runs on a context detached from ctx's cancellation so that
// a shutdown never interrupts a transition half-persisted.
func (w *Worker) RunOnce(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.operationTimeout)
	defer cancel()

	completed, err := w.ticker.Tick(opCtx)
	if err != nil {
		slog.ErrorContext(opCtx, "Tick failed", "error", err)
		return
	}
	if len(completed) > 0 {
		slog.InfoContext(opCtx, "Tasks auto-completed", "count", len(completed))
	}
}
