package handler

import (
	"time"

	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/settings"
)

// TaskDTO is the wire form of a task, including values derived at read time.
type TaskDTO struct {
	ID                   string           `json:"id"`
	Title                string           `json:"title"`
	State                domain.TaskState `json:"state"`
	Important            bool             `json:"important"`
	Color                *ColorDTO        `json:"color,omitempty"`
	DueAt                time.Time        `json:"due_at"`
	TimeRemainingSeconds int64            `json:"time_remaining_seconds"`
	FormattedTime        string           `json:"formatted_time"`
	Late                 bool             `json:"late"`
	IsCompleted          bool             `json:"is_completed"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
	HasReminder          bool             `json:"has_reminder"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ColorDTO is a named color with its hex value.
type ColorDTO struct {
	Name domain.TaskColor `json:"name"`
	Hex  string           `json:"hex"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

// ListTasksResponse wraps an ordered task list.
type ListTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ClearCompletedResponse reports how many tasks were removed.
type ClearCompletedResponse struct {
	Deleted int `json:"deleted"`
}

// AppearanceDTO is the wire form of the appearance settings.
type AppearanceDTO struct {
	ColorGroup     domain.ColorGroup   `json:"color_group"`
	ImportantColor ColorDTO            `json:"important_color"`
	ButtonScheme   domain.ButtonScheme `json:"button_scheme"`
	ButtonLabel    string              `json:"button_label"`
	ButtonHex      string              `json:"button_hex"`
	Palette        []ColorDTO          `json:"palette"`
}

// PaletteDTO lists the colors of one group.
type PaletteDTO struct {
	Group  domain.ColorGroup `json:"group"`
	Colors []ColorDTO        `json:"colors"`
}

// ListPalettesResponse wraps every palette.
type ListPalettesResponse struct {
	Palettes []PaletteDTO `json:"palettes"`
}

// MapTaskToDTO converts a task to its DTO as seen at now.
// Overdue tasks show "0 HR"; the raw remaining seconds stay negative.
func MapTaskToDTO(t *domain.Task, palette domain.Palette, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:                   t.ID,
		Title:                t.Title,
		State:                t.State(),
		Important:            t.Important,
		DueAt:                t.ExpirationDate,
		TimeRemainingSeconds: int64(t.TimeRemaining(now) / time.Second),
		FormattedTime:        t.FormattedTimeClamped(now),
		Late:                 t.IsLate(now),
		IsCompleted:          t.IsCompleted,
		CompletedAt:          t.CompletedAt,
		HasReminder:          t.ReminderID != "",
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}

	if t.Important {
		name, rgb := palette.ColorAt(t.ImportantColorIndex)
		dto.Color = &ColorDTO{Name: name, Hex: rgb.Hex()}
	}

	return dto
}

// MapAppearanceToDTO converts appearance settings to their DTO.
func MapAppearanceToDTO(a settings.Appearance) AppearanceDTO {
	rgb, _ := domain.ColorRGB(a.ImportantColor)
	return AppearanceDTO{
		ColorGroup:     a.ColorGroup,
		ImportantColor: ColorDTO{Name: a.ImportantColor, Hex: rgb.Hex()},
		ButtonScheme:   a.ButtonScheme,
		ButtonLabel:    a.ButtonScheme.Description(),
		ButtonHex:      a.ButtonScheme.PreviewColor().Hex(),
		Palette:        MapPaletteToDTO(a.Palette()).Colors,
	}
}

// MapPaletteToDTO converts a palette to its DTO.
func MapPaletteToDTO(p domain.Palette) PaletteDTO {
	colors := make([]ColorDTO, 0, p.Size())
	for i := range p.Size() {
		name, rgb := p.ColorAt(i)
		colors = append(colors, ColorDTO{Name: name, Hex: rgb.Hex()})
	}
	return PaletteDTO{Group: p.Group, Colors: colors}
}
