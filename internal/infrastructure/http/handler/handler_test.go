package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/clock"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/infrastructure/http/response"
	"github.com/rezkam/dolist/internal/settings"
	"github.com/rezkam/dolist/internal/storage/fs"
)

// stubReminders hands out sequential reminder IDs and records cancellations.
type stubReminders struct {
	mu        sync.Mutex
	next      int
	cancelled []string
}

func (s *stubReminders) Schedule(ctx context.Context, title string, firesAt time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("r-%d", s.next)
}

func (s *stubReminders) Cancel(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, id)
}

type testAPI struct {
	handler    http.Handler
	clock      *clock.Fake
	reminders  *stubReminders
	appearance *settings.File
	service    *task.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dir := t.TempDir()
	store, err := fs.NewStore(filepath.Join(dir, "tasks"))
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	reminders := &stubReminders{}
	appearance := settings.NewFile(filepath.Join(dir, "settings.yaml"))
	svc := task.NewService(store, reminders, clk, task.Config{})

	return &testAPI{
		handler:    NewRouter(svc, appearance, clk),
		clock:      clk,
		reminders:  reminders,
		appearance: appearance,
		service:    svc,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) create(t *testing.T, req CreateTaskRequest) TaskDTO {
	t.Helper()

	w := a.do(t, http.MethodPost, "/v1/tasks", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[TaskResponse](t, w).Task
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateTask(t *testing.T) {
	api := newTestAPI(t)

	dto := api.create(t, CreateTaskRequest{Title: "  Buy milk ", DueAt: "3h"})

	assert.Equal(t, "Buy milk", dto.Title)
	assert.Equal(t, domain.TaskStateActive, dto.State)
	assert.Equal(t, int64(3*3600), dto.TimeRemainingSeconds)
	assert.Equal(t, "3 HRs", dto.FormattedTime)
	assert.True(t, dto.HasReminder)
}

func TestCreateTask_DefaultDueDate(t *testing.T) {
	api := newTestAPI(t)

	dto := api.create(t, CreateTaskRequest{Title: "Someday"})

	assert.Equal(t, api.clock.Now().Add(domain.DefaultDueIn), dto.DueAt)
}

func TestCreateTask_Important(t *testing.T) {
	api := newTestAPI(t)

	dto := api.create(t, CreateTaskRequest{Title: "Urgent", Important: true, DueAt: "2025-06-02T12:00:00Z"})

	assert.Equal(t, domain.TaskStateImportant, dto.State)
	assert.False(t, dto.HasReminder)
	require.NotNil(t, dto.Color)
	assert.NotEmpty(t, dto.Color.Hex)
}

func TestCreateTask_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"empty title", CreateTaskRequest{Title: "   "}, "title"},
		{"bad due date", CreateTaskRequest{Title: "x", DueAt: "tomorrow-ish"}, "due_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/v1/tasks", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[response.ErrorResponse](t, w)
			require.NotEmpty(t, resp.Error.Details)
			assert.Equal(t, tt.field, resp.Error.Details[0].Field)
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/tasks", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListTasks_OrderAndViews(t *testing.T) {
	api := newTestAPI(t)

	a := api.create(t, CreateTaskRequest{Title: "Alpha", DueAt: "3h"})
	b := api.create(t, CreateTaskRequest{Title: "Beta", DueAt: "5h"})
	c := api.create(t, CreateTaskRequest{Title: "Gamma", Important: true, DueAt: "10h"})

	w := api.do(t, http.MethodPost, "/v1/tasks/"+b.ID+":complete", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ids := func(path string) []string {
		w := api.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []string
		for _, dto := range decode[ListTasksResponse](t, w).Tasks {
			out = append(out, dto.ID)
		}
		return out
	}

	assert.Equal(t, []string{c.ID, a.ID}, ids("/v1/tasks"))
	assert.Equal(t, []string{b.ID}, ids("/v1/tasks?view=completed"))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, ids("/v1/tasks?view=all"))
	assert.Equal(t, []string{b.ID}, ids("/v1/tasks?view=all&q=BET"))

	w = api.do(t, http.MethodGet, "/v1/tasks?view=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskActions(t *testing.T) {
	api := newTestAPI(t)
	created := api.create(t, CreateTaskRequest{Title: "Ship it", DueAt: "4h"})
	base := "/v1/tasks/" + created.ID

	w := api.do(t, http.MethodPost, base+":toggle-important", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dto := decode[TaskResponse](t, w).Task
	assert.True(t, dto.Important)
	assert.False(t, dto.HasReminder)
	assert.Equal(t, []string{"r-1"}, api.reminders.cancelled)

	w = api.do(t, http.MethodPost, base+":complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dto = decode[TaskResponse](t, w).Task
	assert.True(t, dto.IsCompleted)
	require.NotNil(t, dto.CompletedAt)

	w = api.do(t, http.MethodPost, base+":toggle-important", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, base+":restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dto = decode[TaskResponse](t, w).Task
	assert.False(t, dto.IsCompleted)
	assert.Nil(t, dto.CompletedAt)
	assert.True(t, dto.Important)

	w = api.do(t, http.MethodPost, base+":restore", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, base+":archive", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAndDeleteTask(t *testing.T) {
	api := newTestAPI(t)
	created := api.create(t, CreateTaskRequest{Title: "Temp", DueAt: "2h"})

	w := api.do(t, http.MethodGet, "/v1/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[TaskResponse](t, w).Task.ID)

	w = api.do(t, http.MethodDelete, "/v1/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"r-1"}, api.reminders.cancelled)

	w = api.do(t, http.MethodGet, "/v1/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, "/v1/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearCompleted(t *testing.T) {
	api := newTestAPI(t)
	keep := api.create(t, CreateTaskRequest{Title: "Keep", DueAt: "2h"})
	for _, title := range []string{"Done 1", "Done 2"} {
		dto := api.create(t, CreateTaskRequest{Title: title, DueAt: "2h"})
		require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/v1/tasks/"+dto.ID+":complete", nil).Code)
	}

	w := api.do(t, http.MethodPost, "/v1/tasks:clear-completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[ClearCompletedResponse](t, w).Deleted)

	w = api.do(t, http.MethodGet, "/v1/tasks?view=all", nil)
	tasks := decode[ListTasksResponse](t, w).Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestAppearance(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/settings/appearance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultColorGroup, decode[AppearanceDTO](t, w).ColorGroup)

	update := settings.Appearance{
		ColorGroup:     domain.ColorGroupGreens,
		ImportantColor: domain.DefaultImportantColor,
		ButtonScheme:   domain.ButtonSchemeTeal,
	}
	w = api.do(t, http.MethodPut, "/v1/settings/appearance", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dto := decode[AppearanceDTO](t, w)
	assert.Equal(t, domain.ColorGroupGreens, dto.ColorGroup)
	assert.Len(t, dto.Palette, 3)

	assert.Equal(t, 3, api.service.Palette().Size())
	saved, err := api.appearance.Load()
	require.NoError(t, err)
	assert.Equal(t, update, saved)

	update.ButtonScheme = "Plaid"
	w = api.do(t, http.MethodPut, "/v1/settings/appearance", update)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPalettes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/settings/palettes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[ListPalettesResponse](t, w).Palettes, len(domain.ColorGroups()))
}
