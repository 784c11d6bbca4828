package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/dolist/internal/clock"
	"github.com/rezkam/dolist/internal/domain"
)

// ReminderScheduler issues and cancels task reminders.
// Schedule returns an empty ID when no reminder was scheduled.
type ReminderScheduler interface {
	Schedule(ctx context.Context, title string, firesAt time.Time) string
	Cancel(ctx context.Context, id string)
}

// Config holds configuration for the Service.
type Config struct {
	// Palette bounds the color index of important tasks.
	Palette domain.Palette
	// ObserveAll makes every open task observed, as a headless process has no view.
	ObserveAll bool
	// ReminderLead moves reminders ahead of the deadline. Zero fires at the deadline.
	ReminderLead time.Duration
}

// CreateParams holds the inputs of a create intent.
type CreateParams struct {
	Title     string
	Important bool
	DueAt     time.Time
}

// ListParams selects and filters the ordered collection.
type ListParams struct {
	View   domain.View
	Search string
}

// Service owns the task collection and applies every intent against it.
//
// All intents and ticks serialize on one mutex, so a task's read-modify-write
// never interleaves with a concurrent auto-complete. Reminder cancellation
// happens under the same lock as the state change that requires it.
//
// Persistence follows the in-memory model: a failed write is logged and the
// transition stands. Tasks whose initial insert failed are inserted again on
// their next write.
type Service struct {
	repo      Repository
	reminders ReminderScheduler
	clock     clock.Clock
	metrics   *metrics

	mu           sync.Mutex
	tasks        map[string]*domain.Task
	unsaved      map[string]struct{}
	observed     map[string]struct{}
	palette      domain.Palette
	observeAll   bool
	reminderLead time.Duration
}

// NewService creates a new task service.
// A zero-size palette falls back to the default color group.
func NewService(repo Repository, reminders ReminderScheduler, clk clock.Clock, config Config) *Service {
	if config.Palette.Size() == 0 {
		config.Palette = domain.PaletteFor(domain.DefaultColorGroup)
	}
	if config.ReminderLead < 0 {
		config.ReminderLead = 0
	}

	return &Service{
		repo:         repo,
		reminders:    reminders,
		clock:        clk,
		metrics:      newMetrics(),
		tasks:        make(map[string]*domain.Task),
		unsaved:      make(map[string]struct{}),
		observed:     make(map[string]struct{}),
		palette:      config.Palette,
		observeAll:   config.ObserveAll,
		reminderLead: config.ReminderLead,
	}
}

// Load replaces the in-memory collection with the repository contents.
func (s *Service) Load(ctx context.Context) error {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*domain.Task, len(tasks))
	s.unsaved = make(map[string]struct{})
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}

	rearmed := 0
	for _, t := range s.tasks {
		if s.rearm(ctx, t) {
			rearmed++
		}
	}

	slog.InfoContext(ctx, "Tasks loaded", "count", len(tasks), "reminders_rearmed", rearmed)
	return nil
}

// rearm replaces the stored reminder of an open, non-important task with one
// scheduled by this process, since reminders do not outlive the process that
// armed them. Must be called with s.mu held.
func (s *Service) rearm(ctx context.Context, t *domain.Task) bool {
	if t.Important || t.IsCompleted {
		return false
	}

	previous := t.ReminderID
	s.reminders.Cancel(ctx, previous)
	t.ReminderID = s.reminders.Schedule(ctx, t.Title, t.ExpirationDate.Add(-s.reminderLead))
	s.metrics.reminder(ctx, t.ReminderID != "")

	if t.ReminderID != previous {
		s.persist(ctx, t)
	}
	return t.ReminderID != ""
}

// SetPalette swaps the palette used for new and cycled color indexes.
func (s *Service) SetPalette(p domain.Palette) {
	if p.Size() == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = p
}

// Palette returns the active palette.
func (s *Service) Palette() domain.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette
}

// Create builds a task. Non-important tasks get a reminder at their deadline;
// important tasks get a color index derived from their ID.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domain.Task, error) {
	if params.DueAt.IsZero() {
		return nil, domain.ErrInvalidDueDate
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.clock.Now()
	t := &domain.Task{
		ID:             idObj.String(),
		Title:          params.Title,
		Important:      params.Important,
		ExpirationDate: params.DueAt.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Important {
		t.ImportantColorIndex = domain.ColorIndexFor(t.ID, s.palette.Size())
	} else {
		t.ReminderID = s.reminders.Schedule(ctx, t.Title, t.ExpirationDate.Add(-s.reminderLead))
		s.metrics.reminder(ctx, t.ReminderID != "")
	}

	s.tasks[t.ID] = t
	s.metrics.transition(ctx, transitionCreate)

	if err := s.repo.Create(ctx, t); err != nil {
		s.unsaved[t.ID] = struct{}{}
		s.persistenceFailed(ctx, "create", t.ID, err)
	}

	slog.InfoContext(ctx, "Task created",
		"task_id", t.ID,
		"important", t.Important,
		"expires_at", t.ExpirationDate,
		"reminder_scheduled", t.ReminderID != "")

	return t.Clone(), nil
}

// Get returns a copy of a task.
func (s *Service) Get(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// ToggleImportant marks an active task important, cancelling its reminder,
// or cycles the color of an important one.
func (s *Service) ToggleImportant(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}

	wasImportant := t.Important
	change, err := t.ToggleImportant(s.palette.Size(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.reminders.Cancel(ctx, change.CancelReminder)

	name := transitionImportant
	if wasImportant {
		name = transitionColorCycle
	}
	s.metrics.transition(ctx, name)
	s.persist(ctx, t)

	slog.InfoContext(ctx, "Task importance toggled",
		"task_id", id,
		"color_index", t.ImportantColorIndex,
		"cancelled_reminder", change.CancelReminder)

	return t.Clone(), nil
}

// Complete marks a task completed and cancels its reminder. Completing a
// completed task returns it unchanged.
func (s *Service) Complete(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}

	change := t.Complete(s.clock.Now())
	if !change.Changed {
		return t.Clone(), nil
	}
	s.reminders.Cancel(ctx, change.CancelReminder)
	s.metrics.transition(ctx, transitionComplete)
	s.persist(ctx, t)

	slog.InfoContext(ctx, "Task completed", "task_id", id)
	return t.Clone(), nil
}

// Restore reopens a completed task. No reminder is scheduled again.
func (s *Service) Restore(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if err := t.Restore(s.clock.Now()); err != nil {
		return nil, err
	}
	s.metrics.transition(ctx, transitionRestore)
	s.persist(ctx, t)

	slog.InfoContext(ctx, "Task restored", "task_id", id)
	return t.Clone(), nil
}

// Delete removes a task and cancels any outstanding reminder.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return err
	}

	s.reminders.Cancel(ctx, t.ReminderID)
	s.remove(ctx, id)
	s.metrics.transition(ctx, transitionDelete)

	slog.InfoContext(ctx, "Task deleted", "task_id", id)
	return nil
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Service) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bulk, canBulk := s.repo.(CompletedDeleter)

	removed := 0
	var stored []string
	for id, t := range s.tasks {
		if !t.IsCompleted {
			continue
		}
		if canBulk {
			if s.forget(id) {
				stored = append(stored, id)
			}
		} else {
			s.remove(ctx, id)
		}
		s.metrics.transition(ctx, transitionDelete)
		removed++
	}

	if len(stored) > 0 {
		s.deleteCleared(ctx, bulk, stored)
	}

	slog.InfoContext(ctx, "Completed tasks cleared", "count", removed)
	return removed, nil
}

// List returns copies of the tasks in canonical order, partitioned by view
// and filtered by a case-insensitive title search.
func (s *Service) List(ctx context.Context, params ListParams) ([]*domain.Task, error) {
	view, err := domain.NewView(string(params.View))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	all := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t.Clone())
	}
	s.mu.Unlock()

	domain.SortTasks(all)
	return domain.FilterTasks(all, view, params.Search), nil
}

// Observe subscribes a task to clock ticks.
func (s *Service) Observe(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(id); err != nil {
		return err
	}
	s.observed[id] = struct{}{}
	return nil
}

// Unobserve stops refreshing a task on clock ticks. Unknown IDs are ignored.
func (s *Service) Unobserve(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observed, id)
}

// Tick refreshes observed tasks against the clock and auto-completes the
// ones whose deadline has passed. It returns the IDs completed by this tick.
func (s *Service) Tick(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	var completed []string
	for id, t := range s.tasks {
		if !s.observeAll {
			if _, ok := s.observed[id]; !ok {
				continue
			}
		}

		change := t.AutoComplete(now)
		if !change.Changed {
			continue
		}
		s.reminders.Cancel(ctx, change.CancelReminder)
		s.metrics.transition(ctx, transitionAutoComplete)
		s.persist(ctx, t)
		completed = append(completed, id)

		slog.InfoContext(ctx, "Task auto-completed",
			"task_id", id,
			"expired_at", t.ExpirationDate)
	}

	return completed, nil
}

func (s *Service) find(id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return t, nil
}

// persist writes t after a transition. Must be called with s.mu held.
func (s *Service) persist(ctx context.Context, t *domain.Task) {
	if _, pending := s.unsaved[t.ID]; pending {
		err := s.repo.Create(ctx, t)
		if err != nil && !errors.Is(err, domain.ErrTaskAlreadyExists) {
			s.persistenceFailed(ctx, "create", t.ID, err)
			return
		}
		delete(s.unsaved, t.ID)
		if err == nil {
			return
		}
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.persistenceFailed(ctx, "update", t.ID, err)
	}
}

// forget drops a task from memory and reports whether storage holds it.
// Must be called with s.mu held.
func (s *Service) forget(id string) bool {
	delete(s.tasks, id)
	delete(s.observed, id)

	if _, pending := s.unsaved[id]; pending {
		delete(s.unsaved, id)
		return false
	}
	return true
}

// remove drops a task from memory and storage. Must be called with s.mu held.
func (s *Service) remove(ctx context.Context, id string) {
	if !s.forget(id) {
		return
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
		s.persistenceFailed(ctx, "delete", id, err)
	}
}

// deleteCleared removes cleared tasks from storage in one statement, then
// deletes one by one the tasks storage did not hold as completed, such as
// those whose completion failed to persist. Must be called with s.mu held.
func (s *Service) deleteCleared(ctx context.Context, bulk CompletedDeleter, ids []string) {
	deleted, err := bulk.DeleteCompleted(ctx)
	if err != nil {
		s.persistenceFailed(ctx, "delete_completed", "", err)
		deleted = nil
	}

	gone := make(map[string]struct{}, len(deleted))
	for _, id := range deleted {
		gone[id] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := gone[id]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
			s.persistenceFailed(ctx, "delete", id, err)
		}
	}
}

func (s *Service) persistenceFailed(ctx context.Context, op, id string, err error) {
	s.metrics.persistenceFailure(ctx, op)
	slog.ErrorContext(ctx, "Failed to persist task",
		"op", op,
		"task_id", id,
		"error", err)
}
