package main

import (
	"context"
	"io"
	"log/slog"
)

// shutdowner abstracts the reminder scheduler so tests can verify cleanup
// behavior without real infrastructure.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup constructs the shutdown hook: drain queued reminder operations,
// disarm pending timers, then close the store.
func newCleanup(scheduler shutdowner, notifier io.Closer, closeStore func() error) func(context.Context) {
	return func(ctx context.Context) {
		if scheduler != nil {
			if err := scheduler.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shut down reminder scheduler", slog.String("error", err.Error()))
			}
		}

		if notifier != nil {
			if err := notifier.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close notifier", slog.String("error", err.Error()))
			}
		}

		if closeStore != nil {
			if err := closeStore(); err != nil {
				slog.ErrorContext(ctx, "failed to close store", slog.String("error", err.Error()))
			}
		}
	}
}
