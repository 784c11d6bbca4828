package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTask(remaining time.Duration) *Task {
	return &Task{
		ID:             "task-1",
		Title:          "Write report",
		ExpirationDate: testNow.Add(remaining),
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestFormattedTime(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"just under an hour", 3599 * time.Second, "0 HR"},
		{"exactly one hour", 3600 * time.Second, "1 HR"},
		{"two hours", 7200 * time.Second, "2 HRs"},
		{"a day", 24 * time.Hour, "24 HRs"},
		{"zero", 0, "0 HR"},
		{"one second overdue", -time.Second, "-1 HR"},
		{"two hours overdue", -2 * time.Hour, "-2 HR"},
		{"sub-second remainder ignored", 2*time.Hour + 500*time.Millisecond, "2 HRs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTask(tt.remaining)
			assert.Equal(t, tt.want, task.FormattedTime(testNow))
		})
	}
}

func TestFormattedTimeClamped_FloorsAtZero(t *testing.T) {
	assert.Equal(t, "0 HR", newTask(-5*time.Hour).FormattedTimeClamped(testNow))
	assert.Equal(t, "3 HRs", newTask(3*time.Hour).FormattedTimeClamped(testNow))
}

func TestIsLate(t *testing.T) {
	assert.True(t, newTask(59*time.Minute).IsLate(testNow))
	assert.False(t, newTask(time.Hour).IsLate(testNow))

	done := newTask(time.Minute)
	done.Complete(testNow)
	assert.False(t, done.IsLate(testNow), "completed tasks are not classified late")
}

func TestToggleImportant_FromActiveCancelsReminder(t *testing.T) {
	task := newTask(2 * time.Hour)
	task.ReminderID = "reminder-1"
	task.ImportantColorIndex = 3

	change, err := task.ToggleImportant(4, testNow)
	require.NoError(t, err)

	assert.True(t, change.Changed)
	assert.Equal(t, "reminder-1", change.CancelReminder)
	assert.True(t, task.Important)
	assert.Empty(t, task.ReminderID)
	assert.Equal(t, 0, task.ImportantColorIndex)
	assert.Equal(t, TaskStateImportant, task.State())
}

func TestToggleImportant_CyclesColorWhenImportant(t *testing.T) {
	task := newTask(2 * time.Hour)
	task.Important = true
	task.ImportantColorIndex = 2

	change, err := task.ToggleImportant(3, testNow)
	require.NoError(t, err)
	assert.Empty(t, change.CancelReminder)
	assert.Equal(t, 0, task.ImportantColorIndex, "index wraps modulo palette size")

	_, err = task.ToggleImportant(3, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ImportantColorIndex)
	assert.True(t, task.Important)
}

func TestToggleImportant_RejectsCompleted(t *testing.T) {
	task := newTask(2 * time.Hour)
	task.Complete(testNow)

	_, err := task.ToggleImportant(4, testNow)
	assert.ErrorIs(t, err, ErrTaskCompleted)
}

func TestComplete_IsIdempotent(t *testing.T) {
	task := newTask(2 * time.Hour)
	task.ReminderID = "reminder-1"

	first := task.Complete(testNow)
	assert.True(t, first.Changed)
	assert.Equal(t, "reminder-1", first.CancelReminder)
	require.NotNil(t, task.CompletedAt)
	completedAt := *task.CompletedAt

	second := task.Complete(testNow.Add(time.Minute))
	assert.False(t, second.Changed)
	assert.Empty(t, second.CancelReminder)
	assert.True(t, task.IsCompleted)
	assert.Equal(t, completedAt, *task.CompletedAt)
}

func TestCompleteRestore_RoundTrip(t *testing.T) {
	task := newTask(2 * time.Hour)
	task.Important = true
	task.ImportantColorIndex = 2

	task.Complete(testNow)
	require.NoError(t, task.Restore(testNow))

	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
	assert.True(t, task.Important)
	assert.Equal(t, 2, task.ImportantColorIndex)
	assert.Empty(t, task.ReminderID)
}

func TestRestore_RejectsOpenTask(t *testing.T) {
	task := newTask(time.Hour)
	assert.ErrorIs(t, task.Restore(testNow), ErrTaskNotCompleted)
}

func TestAutoComplete(t *testing.T) {
	t.Run("overdue active task completes once", func(t *testing.T) {
		task := newTask(-time.Second)
		task.ReminderID = "reminder-1"

		change := task.AutoComplete(testNow)
		assert.True(t, change.Changed)
		assert.Equal(t, "reminder-1", change.CancelReminder)
		assert.True(t, task.IsCompleted)

		again := task.AutoComplete(testNow.Add(time.Second))
		assert.False(t, again.Changed)
	})

	t.Run("deadline reached exactly", func(t *testing.T) {
		task := newTask(0)
		assert.True(t, task.AutoComplete(testNow).Changed)
	})

	t.Run("important task never auto completes", func(t *testing.T) {
		task := newTask(-time.Hour)
		task.Important = true
		assert.False(t, task.AutoComplete(testNow).Changed)
		assert.False(t, task.IsCompleted)
	})

	t.Run("future deadline untouched", func(t *testing.T) {
		task := newTask(time.Second)
		assert.False(t, task.AutoComplete(testNow).Changed)
	})
}

func TestCompletedAtMatchesIsCompleted(t *testing.T) {
	task := newTask(time.Hour)
	check := func() {
		assert.Equal(t, task.IsCompleted, task.CompletedAt != nil)
	}

	check()
	task.Complete(testNow)
	check()
	require.NoError(t, task.Restore(testNow))
	check()
	task.AutoComplete(testNow.Add(2 * time.Hour))
	check()
}

func TestClone_IsDeep(t *testing.T) {
	task := newTask(time.Hour)
	task.Complete(testNow)

	clone := task.Clone()
	*clone.CompletedAt = testNow.Add(time.Hour)
	clone.Title = "changed"

	assert.Equal(t, testNow, *task.CompletedAt)
	assert.Equal(t, "Write report", task.Title)
}
