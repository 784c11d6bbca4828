package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/infrastructure/http/response"
)

// Task actions addressed as POST /v1/tasks/{id}:{action}.
const (
	actionToggleImportant = "toggle-important"
	actionComplete        = "complete"
	actionRestore         = "restore"
)

// CreateTaskRequest is the body of POST /v1/tasks.
// DueAt accepts an RFC 3339 timestamp or a duration from now ("90m").
type CreateTaskRequest struct {
	Title     string `json:"title"`
	Important bool   `json:"important"`
	DueAt     string `json:"due_at"`
}

// CreateTask handles POST /v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	title, err := domain.NewTitle(req.Title)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dueAt, err := domain.NewDueDate(req.DueAt, h.clock.Now())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	created, err := h.tasks.Create(r.Context(), task.CreateParams{
		Title:     title.String(),
		Important: req.Important,
		DueAt:     dueAt,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create task via HTTP", "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "task created via HTTP", "task_id", created.ID)

	response.Created(w, TaskResponse{Task: h.taskDTO(created)})
}

// ListTasks handles GET /v1/tasks?view=&q=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	view, err := domain.NewView(query.Get("view"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	tasks, err := h.tasks.List(r.Context(), task.ListParams{
		View:   view,
		Search: query.Get("q"),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	palette := h.tasks.Palette()
	now := h.clock.Now()
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, MapTaskToDTO(t, palette, now))
	}

	response.OK(w, ListTasksResponse{Tasks: dtos})
}

// GetTask handles GET /v1/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, TaskResponse{Task: h.taskDTO(t)})
}

// TaskAction handles POST /v1/tasks/{id}:{action}.
func (h *TaskHandler) TaskAction(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	idx := strings.LastIndexByte(target, ':')
	if idx <= 0 {
		response.NotFound(w, "route")
		return
	}
	id, action := target[:idx], target[idx+1:]

	var (
		t   *domain.Task
		err error
	)
	switch action {
	case actionToggleImportant:
		t, err = h.tasks.ToggleImportant(r.Context(), id)
	case actionComplete:
		t, err = h.tasks.Complete(r.Context(), id)
	case actionRestore:
		t, err = h.tasks.Restore(r.Context(), id)
	default:
		response.NotFound(w, "action")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "task action failed via HTTP",
			"task_id", id,
			"action", action,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, TaskResponse{Task: h.taskDTO(t)})
}

// DeleteTask handles DELETE /v1/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "task deleted via HTTP", "task_id", id)
	response.NoContent(w)
}

// ClearCompleted handles POST /v1/tasks:clear-completed.
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.tasks.ClearCompleted(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ClearCompletedResponse{Deleted: n})
}

func (h *TaskHandler) taskDTO(t *domain.Task) TaskDTO {
	return MapTaskToDTO(t, h.tasks.Palette(), h.clock.Now())
}
