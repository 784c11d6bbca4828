package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/dolist/internal/clock"
)

// Default configuration values.
const (
	DefaultOperationTimeout = 5 * time.Second
	DefaultQueueSize        = 1000
	DefaultTitle            = "1 Hour to complete the task"
)

// Config holds configuration for the Scheduler.
type Config struct {
	OperationTimeout time.Duration // Timeout for a single notifier call
	QueueSize        int           // Buffer size for pending notifier calls
	Title            string        // Notification title; the task title becomes the body
}

type opKind int

const (
	opSchedule opKind = iota
	opCancel
)

type operation struct {
	kind         opKind
	notification Notification
}

// Scheduler issues and cancels task reminders.
//
// Decisions (delay policy, identifiers, bookkeeping) are made synchronously;
// calls into the Notifier run on a single background worker so a slow or
// failing delivery mechanism never blocks a task transition.
type Scheduler struct {
	notifier         Notifier
	clock            clock.Clock
	appCtx           context.Context // Application context, cancelled on shutdown
	ops              chan operation
	shutdownChan     chan struct{}
	shutdownOnce     sync.Once
	closed           atomic.Bool
	wg               sync.WaitGroup
	operationTimeout time.Duration
	title            string

	mu      sync.Mutex
	pending map[string]time.Time // reminder ID -> fire time
}

// NewScheduler creates a Scheduler and starts its background worker.
// The ctx parameter should be an application-level context that gets cancelled on shutdown.
// Zero OperationTimeout means no timeout; non-positive QueueSize gets the default.
func NewScheduler(ctx context.Context, notifier Notifier, clk clock.Clock, config Config) *Scheduler {
	if config.OperationTimeout < 0 {
		config.OperationTimeout = DefaultOperationTimeout
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}

	s := &Scheduler{
		notifier:         notifier,
		clock:            clk,
		appCtx:           ctx,
		ops:              make(chan operation, config.QueueSize),
		shutdownChan:     make(chan struct{}),
		operationTimeout: config.OperationTimeout,
		title:            config.Title,
		pending:          make(map[string]time.Time),
	}

	s.wg.Add(1)
	go s.process()

	return s
}

// RequestPermission asks the notifier for permission to deliver reminders.
func (s *Scheduler) RequestPermission(ctx context.Context) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.notifier.RequestPermission(opCtx); err != nil {
		return fmt.Errorf("failed to request notification permission: %w", err)
	}
	return nil
}

// Schedule registers a reminder for a task whose deadline is firesAt.
// It returns the reminder ID, or an empty string when the delay policy
// refuses the reminder.
func (s *Scheduler) Schedule(ctx context.Context, taskTitle string, firesAt time.Time) string {
	now := s.clock.Now()
	delay, ok := Plan(now, firesAt)
	if !ok {
		slog.DebugContext(ctx, "Reminder refused by delay policy",
			"fires_at", firesAt,
			"delay", firesAt.Sub(now))
		return ""
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to generate reminder id", "error", err)
		return ""
	}
	id := idObj.String()

	s.mu.Lock()
	s.pending[id] = now.Add(delay)
	s.mu.Unlock()

	s.enqueue(ctx, operation{
		kind: opSchedule,
		notification: Notification{
			ID:    id,
			Title: s.title,
			Body:  taskTitle,
			Delay: delay,
		},
	})

	return id
}

// Cancel removes a pending reminder. Empty, unknown and already fired IDs are ignored.
func (s *Scheduler) Cancel(ctx context.Context, id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	firesAt, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok || !firesAt.After(s.clock.Now()) {
		return
	}

	s.enqueue(ctx, operation{kind: opCancel, notification: Notification{ID: id}})
}

// Pending returns the number of reminders that have not fired or been cancelled.
func (s *Scheduler) Pending() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, firesAt := range s.pending {
		if !firesAt.After(now) {
			delete(s.pending, id)
		}
	}
	return len(s.pending)
}

func (s *Scheduler) enqueue(ctx context.Context, op operation) {
	if s.closed.Load() {
		slog.WarnContext(ctx, "Reminder scheduler is shut down, dropping operation",
			"reminder_id", op.notification.ID)
		return
	}

	select {
	case s.ops <- op:
	default:
		// Queue full: delivery is best-effort, task state is already correct.
		slog.WarnContext(ctx, "Dropped reminder operation due to full queue",
			"reminder_id", op.notification.ID)
	}
}

// process is the background worker that forwards operations to the notifier.
func (s *Scheduler) process() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.ops:
			ctx, cancel := s.withTimeout(s.appCtx)
			s.apply(ctx, op)
			cancel()

		case <-s.shutdownChan:
			// Drain remaining operations before exiting.
			for {
				select {
				case op := <-s.ops:
					ctx, cancel := s.withTimeout(context.Background())
					s.apply(ctx, op)
					cancel()
				default:
					return
				}
			}
		}
	}
}

func (s *Scheduler) apply(ctx context.Context, op operation) {
	var err error
	switch op.kind {
	case opSchedule:
		err = s.notifier.ScheduleOneShot(ctx, op.notification)
	case opCancel:
		err = s.notifier.Cancel(ctx, op.notification.ID)
	}
	if err != nil {
		slog.WarnContext(ctx, "Notifier call failed",
			slog.String("reminder_id", op.notification.ID),
			slog.String("error", err.Error()))
	}
}

func (s *Scheduler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.operationTimeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Shutdown stops the background worker after draining queued operations.
// It respects the provided context's deadline and is safe to call multiple times.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.closed.Store(true)
		close(s.shutdownChan)

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			shutdownErr = fmt.Errorf("shutdown timeout: %w", ctx.Err())
		}
	})
	return shutdownErr
}
