package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/ptr"
)

// base is truncated to microseconds, the coarsest precision among the stores.
var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTask(title string) *domain.Task {
	return &domain.Task{
		ID:             uuid.Must(uuid.NewV7()).String(),
		Title:          title,
		ExpirationDate: base.Add(2 * time.Hour),
		ReminderID:     uuid.Must(uuid.NewV7()).String(),
		CreatedAt:      base,
		UpdatedAt:      base,
	}
}

// RunRepositoryComplianceTest runs a standard set of tests against a task.Repository implementation.
// setup is a function that returns a fresh (clean) Repository instance for the test.
// cleanup is called after the test to clean up resources (if any).
func RunRepositoryComplianceTest(t *testing.T, setup func() (task.Repository, func())) {
	t.Run("CreateAndFindAll", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		want := newTask("Pay rent")
		require.NoError(t, repo.Create(ctx, want))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assertSameTask(t, want, all[0])
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		tk := newTask("Pay rent")
		require.NoError(t, repo.Create(ctx, tk))

		err := repo.Create(ctx, tk)
		assert.ErrorIs(t, err, domain.ErrTaskAlreadyExists)
	})

	t.Run("Update", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		tk := newTask("Pay rent")
		require.NoError(t, repo.Create(ctx, tk))

		tk.Important = true
		tk.ImportantColorIndex = 3
		tk.ReminderID = ""
		tk.IsCompleted = true
		tk.CompletedAt = ptr.To(base.Add(time.Hour))
		tk.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.Update(ctx, tk))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assertSameTask(t, tk, all[0])

		tk.IsCompleted = false
		tk.CompletedAt = nil
		require.NoError(t, repo.Update(ctx, tk))

		all, err = repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Nil(t, all[0].CompletedAt)
	})

	t.Run("UpdateNonExistent", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()

		err := repo.Update(context.Background(), newTask("ghost"))
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		keep := newTask("keep")
		drop := newTask("drop")
		require.NoError(t, repo.Create(ctx, keep))
		require.NoError(t, repo.Create(ctx, drop))

		require.NoError(t, repo.Delete(ctx, drop.ID))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, keep.ID, all[0].ID)

		err = repo.Delete(ctx, drop.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("FindByCompletion", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		open := newTask("open")
		done := newTask("done")
		done.IsCompleted = true
		done.CompletedAt = ptr.To(base.Add(time.Minute))
		done.ReminderID = ""
		require.NoError(t, repo.Create(ctx, open))
		require.NoError(t, repo.Create(ctx, done))

		completed, err := repo.FindByCompletion(ctx, true)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, done.ID, completed[0].ID)

		active, err := repo.FindByCompletion(ctx, false)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, open.ID, active[0].ID)
	})

	t.Run("FindAllEmpty", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()

		all, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func assertSameTask(t *testing.T, want, got *domain.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Important, got.Important)
	assert.Equal(t, want.ImportantColorIndex, got.ImportantColorIndex)
	assert.True(t, want.ExpirationDate.Equal(got.ExpirationDate), "expiration date")
	assert.Equal(t, want.IsCompleted, got.IsCompleted)
	if want.CompletedAt == nil {
		assert.Nil(t, got.CompletedAt)
	} else if assert.NotNil(t, got.CompletedAt) {
		assert.True(t, want.CompletedAt.Equal(*got.CompletedAt), "completed at")
	}
	assert.Equal(t, want.ReminderID, got.ReminderID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created at")
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated at")
	assert.Equal(t, time.UTC, got.ExpirationDate.Location())
}
