package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/application/worker"
	"github.com/rezkam/dolist/internal/reminder"
)

// syncWriter serializes writes from timer goroutines and the tick loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// announcingTicker reports every auto-completed task after a tick.
type announcingTicker struct {
	tasks *task.Service
	out   *syncWriter
}

func (t announcingTicker) Tick(ctx context.Context) ([]string, error) {
	completed, err := t.tasks.Tick(ctx)
	for _, id := range completed {
		title := id
		if tk, getErr := t.tasks.Get(ctx, id); getErr == nil {
			title = tk.Title
		}
		t.out.printf("%s  expired  %s\n", time.Now().Format(time.TimeOnly), title)
	}
	return completed, err
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay running, deliver reminders and expire overdue tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := &syncWriter{w: cmd.OutOrStdout()}
			sink := reminder.SinkFunc(func(_ context.Context, n reminder.Notification) error {
				out.printf("%s  %s  %s\n", time.Now().Format(time.TimeOnly), n.Title, n.Body)
				return nil
			})

			a, err := openApp(ctx, opts, sink)
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(ctx))

			if interval <= 0 {
				interval = a.cfg.Tick.Interval
			}

			out.printf("Watching tasks, press Ctrl+C to stop\n")
			w := worker.New(announcingTicker{tasks: a.tasks, out: out},
				worker.WithTickInterval(interval),
				worker.WithOperationTimeout(a.cfg.Tick.OperationTimeout))
			return w.Start(ctx)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "tick interval (default from DOLIST_TICK_INTERVAL)")
	return cmd
}
