package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/clock"
	"github.com/rezkam/dolist/internal/settings"
)

// AppearanceStore loads and saves the appearance settings.
type AppearanceStore interface {
	Load() (settings.Appearance, error)
	Save(settings.Appearance) error
}

// TaskHandler adapts HTTP requests to task service calls.
type TaskHandler struct {
	tasks      *task.Service
	appearance AppearanceStore
	clock      clock.Clock
}

// NewTaskHandler creates a new HTTP API handler.
func NewTaskHandler(tasks *task.Service, appearance AppearanceStore, clk clock.Clock) *TaskHandler {
	return &TaskHandler{
		tasks:      tasks,
		appearance: appearance,
		clock:      clk,
	}
}

// NewRouter creates the API router. It is mounted under /api by the server;
// production code and tests share it so routing behaves identically.
func NewRouter(tasks *task.Service, appearance AppearanceStore, clk clock.Clock) http.Handler {
	h := NewTaskHandler(tasks, appearance, clk)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks:clear-completed", h.ClearCompleted)
		r.Get("/tasks/{id}", h.GetTask)
		r.Post("/tasks/{target}", h.TaskAction)
		r.Delete("/tasks/{id}", h.DeleteTask)

		r.Get("/settings/appearance", h.GetAppearance)
		r.Put("/settings/appearance", h.UpdateAppearance)
		r.Get("/settings/palettes", h.ListPalettes)
	})
	return r
}
