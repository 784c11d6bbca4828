package domain

import (
	"fmt"
	"time"

	"github.com/rezkam/dolist/internal/ptr"
)

// LateThreshold is the remaining time under which an open task is classified late.
const LateThreshold = time.Hour

// Task is the aggregate root of the tracker: one deadline-bound unit of work.
//
// Invariants maintained by the transition methods:
//   - CompletedAt != nil exactly when IsCompleted is true.
//   - ReminderID is only set while the task is neither important nor completed.
//
// Remaining time is never stored; it is derived from ExpirationDate at read time.
type Task struct {
	ID    string
	Title string

	Important bool
	// ImportantColorIndex picks a color from the active palette while Important is set.
	ImportantColorIndex int

	ExpirationDate time.Time

	IsCompleted bool
	CompletedAt *time.Time

	// ReminderID identifies the outstanding reminder. Empty means none.
	ReminderID string

	// Operational timestamps, always UTC.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Change reports the outcome of a transition.
// CancelReminder carries the reminder the caller must cancel, if any.
type Change struct {
	Changed        bool
	CancelReminder string
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.CompletedAt = ptr.Clone(t.CompletedAt)
	return &c
}

// State returns the lifecycle state of the task.
func (t *Task) State() TaskState {
	switch {
	case t.IsCompleted:
		return TaskStateCompleted
	case t.Important:
		return TaskStateImportant
	default:
		return TaskStateActive
	}
}

// TimeRemaining returns the time left until the deadline. Negative once overdue.
func (t *Task) TimeRemaining(now time.Time) time.Duration {
	return t.ExpirationDate.Sub(now)
}

// IsLate reports whether an open task has less than an hour left.
func (t *Task) IsLate(now time.Time) bool {
	return !t.IsCompleted && t.TimeRemaining(now) < LateThreshold
}

// HoursRemaining returns the whole hours left, rounded toward negative infinity.
func (t *Task) HoursRemaining(now time.Time) int {
	secs := int64(t.TimeRemaining(now) / time.Second)
	hours := secs / 3600
	if secs%3600 != 0 && secs < 0 {
		hours--
	}
	return int(hours)
}

// FormattedTime renders the remaining hours as "{n} HR" or "{n} HRs".
// Overdue tasks yield negative counts.
func (t *Task) FormattedTime(now time.Time) string {
	return formatHours(t.HoursRemaining(now))
}

// FormattedTimeClamped is FormattedTime with negative hour counts shown as zero.
func (t *Task) FormattedTimeClamped(now time.Time) string {
	return formatHours(max(t.HoursRemaining(now), 0))
}

func formatHours(n int) string {
	if n <= 1 {
		return fmt.Sprintf("%d HR", n)
	}
	return fmt.Sprintf("%d HRs", n)
}

// ToggleImportant applies the Active → Important transition, or advances the
// color index of an already important task modulo paletteSize.
// Marking important hands back the outstanding reminder for cancellation.
func (t *Task) ToggleImportant(paletteSize int, now time.Time) (Change, error) {
	if t.IsCompleted {
		return Change{}, ErrTaskCompleted
	}

	if t.Important {
		t.ImportantColorIndex = NextColorIndex(t.ImportantColorIndex, paletteSize)
		t.UpdatedAt = now.UTC()
		return Change{Changed: true}, nil
	}

	change := Change{Changed: true, CancelReminder: t.ReminderID}
	t.Important = true
	t.ImportantColorIndex = 0
	t.ReminderID = ""
	t.UpdatedAt = now.UTC()
	return change, nil
}

// Complete marks the task completed at now. Completing a completed task is a no-op
// and keeps the original CompletedAt.
func (t *Task) Complete(now time.Time) Change {
	if t.IsCompleted {
		return Change{}
	}

	change := Change{Changed: true, CancelReminder: t.ReminderID}
	t.ReminderID = ""
	t.IsCompleted = true
	t.CompletedAt = ptr.To(now.UTC())
	t.UpdatedAt = now.UTC()
	return change
}

// Restore rolls back completion. Importance, color index and the
// absence of a reminder are left as they are.
func (t *Task) Restore(now time.Time) error {
	if !t.IsCompleted {
		return ErrTaskNotCompleted
	}

	t.IsCompleted = false
	t.CompletedAt = nil
	t.UpdatedAt = now.UTC()
	return nil
}

// ShouldAutoComplete reports whether the deadline has passed for an open,
// non-important task.
func (t *Task) ShouldAutoComplete(now time.Time) bool {
	return !t.Important && !t.IsCompleted && t.TimeRemaining(now) <= 0
}

// AutoComplete completes the task if its deadline has passed.
// Repeated calls after completion report no change.
func (t *Task) AutoComplete(now time.Time) Change {
	if !t.ShouldAutoComplete(now) {
		return Change{}
	}
	return t.Complete(now)
}
