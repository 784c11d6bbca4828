package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/infrastructure/http/response"
	"github.com/rezkam/dolist/internal/settings"
)

// GetAppearance handles GET /v1/settings/appearance.
func (h *TaskHandler) GetAppearance(w http.ResponseWriter, r *http.Request) {
	a, err := h.appearance.Load()
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	response.OK(w, MapAppearanceToDTO(a))
}

// UpdateAppearance handles PUT /v1/settings/appearance.
// The new palette applies to color indexes assigned from now on.
func (h *TaskHandler) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	var req settings.Appearance
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if err := h.appearance.Save(req); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.tasks.SetPalette(req.Palette())

	slog.InfoContext(r.Context(), "appearance updated via HTTP",
		"color_group", req.ColorGroup,
		"button_scheme", req.ButtonScheme)

	response.OK(w, MapAppearanceToDTO(req))
}

// ListPalettes handles GET /v1/settings/palettes.
func (h *TaskHandler) ListPalettes(w http.ResponseWriter, r *http.Request) {
	groups := domain.ColorGroups()
	dtos := make([]PaletteDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, MapPaletteToDTO(domain.PaletteFor(g)))
	}
	response.OK(w, ListPalettesResponse{Palettes: dtos})
}
