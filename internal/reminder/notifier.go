package reminder

import (
	"context"
	"errors"
	"time"
)

// ErrPermissionNotGranted is returned by notifiers asked to schedule before
// RequestPermission succeeded.
var ErrPermissionNotGranted = errors.New("notification permission not granted")

// Notification is a one-shot reminder handed to the delivery mechanism.
type Notification struct {
	ID    string
	Title string
	Body  string
	Delay time.Duration
}

// Notifier is the external delivery mechanism for reminders.
// Implementations are treated as unreliable: callers log failures and move on.
type Notifier interface {
	// RequestPermission asks the delivery mechanism for permission to notify.
	RequestPermission(ctx context.Context) error

	// ScheduleOneShot registers a notification that fires once after n.Delay, keyed by n.ID.
	ScheduleOneShot(ctx context.Context, n Notification) error

	// Cancel removes a pending notification. Unknown IDs are not an error.
	Cancel(ctx context.Context, id string) error
}
