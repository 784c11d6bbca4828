package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default delivery limits for LocalNotifier.
const (
	DefaultDeliveriesPerMinute = 30
	DefaultDeliveryBurst       = 5
)

// Sink receives reminders when they fire.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// LogSink delivers reminders as structured log records.
type LogSink struct{}

// Deliver logs the reminder.
func (LogSink) Deliver(ctx context.Context, n Notification) error {
	slog.InfoContext(ctx, "Reminder",
		"reminder_id", n.ID,
		"title", n.Title,
		"body", n.Body)
	return nil
}

// LocalNotifier delivers reminders in-process using one timer per reminder.
// Deliveries are throttled so that a burst of simultaneous deadlines does not
// flood the sink.
type LocalNotifier struct {
	appCtx  context.Context
	sink    Sink
	limiter *rate.Limiter

	mu      sync.Mutex
	granted bool
	timers  map[string]*time.Timer
}

// LocalOption configures a LocalNotifier.
type LocalOption func(*LocalNotifier)

// WithDeliveryRate sets how many reminders per minute reach the sink.
// Non-positive values disable throttling.
func WithDeliveryRate(perMinute, burst int) LocalOption {
	return func(n *LocalNotifier) {
		if perMinute <= 0 {
			n.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		n.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), max(burst, 1))
	}
}

// NewLocalNotifier creates a notifier delivering to sink.
// The ctx parameter bounds deliveries; once cancelled, pending reminders are dropped.
func NewLocalNotifier(ctx context.Context, sink Sink, opts ...LocalOption) *LocalNotifier {
	n := &LocalNotifier{
		appCtx:  ctx,
		sink:    sink,
		limiter: rate.NewLimiter(rate.Limit(float64(DefaultDeliveriesPerMinute)/60.0), DefaultDeliveryBurst),
		timers:  make(map[string]*time.Timer),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// RequestPermission always grants permission for in-process delivery.
func (n *LocalNotifier) RequestPermission(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.granted = true
	slog.DebugContext(ctx, "Notification permission granted")
	return nil
}

// ScheduleOneShot arms a timer that delivers the notification after its delay.
// Scheduling an existing ID replaces the previous timer.
func (n *LocalNotifier) ScheduleOneShot(ctx context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.granted {
		return ErrPermissionNotGranted
	}

	if existing, ok := n.timers[notification.ID]; ok {
		existing.Stop()
	}

	n.timers[notification.ID] = time.AfterFunc(notification.Delay, func() {
		n.fire(notification)
	})

	slog.DebugContext(ctx, "Reminder armed",
		"reminder_id", notification.ID,
		"delay", notification.Delay)
	return nil
}

// Cancel disarms a pending reminder. Unknown or fired IDs are ignored.
func (n *LocalNotifier) Cancel(ctx context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
		slog.DebugContext(ctx, "Reminder cancelled", "reminder_id", id)
	}
	return nil
}

// Pending returns the number of armed reminders.
func (n *LocalNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

// Close disarms every pending reminder.
func (n *LocalNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	return nil
}

func (n *LocalNotifier) fire(notification Notification) {
	n.mu.Lock()
	if _, ok := n.timers[notification.ID]; !ok {
		// Cancelled while the timer was firing.
		n.mu.Unlock()
		return
	}
	delete(n.timers, notification.ID)
	n.mu.Unlock()

	if err := n.limiter.Wait(n.appCtx); err != nil {
		slog.WarnContext(n.appCtx, "Reminder dropped",
			"reminder_id", notification.ID,
			"error", err)
		return
	}

	if err := n.sink.Deliver(n.appCtx, notification); err != nil {
		slog.WarnContext(n.appCtx, "Reminder delivery failed",
			"reminder_id", notification.ID,
			"error", err)
	}
}
