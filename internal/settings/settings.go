// Package settings persists the appearance preferences that drive task colors.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rezkam/dolist/internal/domain"
)

// Appearance holds the user's color preferences.
type Appearance struct {
	ColorGroup     domain.ColorGroup   `yaml:"color_group" json:"color_group"`
	ImportantColor domain.TaskColor    `yaml:"important_color" json:"important_color"`
	ButtonScheme   domain.ButtonScheme `yaml:"button_scheme" json:"button_scheme"`
}

// Default returns the appearance of a fresh install.
func Default() Appearance {
	return Appearance{
		ColorGroup:     domain.DefaultColorGroup,
		ImportantColor: domain.DefaultImportantColor,
		ButtonScheme:   domain.DefaultButtonScheme,
	}
}

// Validate checks every field against the known palettes and schemes.
func (a Appearance) Validate() error {
	if _, err := domain.NewColorGroup(string(a.ColorGroup)); err != nil {
		return err
	}
	if _, err := domain.NewTaskColor(string(a.ImportantColor)); err != nil {
		return err
	}
	if _, err := domain.NewButtonScheme(string(a.ButtonScheme)); err != nil {
		return err
	}
	return nil
}

// Palette returns the palette of the selected color group.
func (a Appearance) Palette() domain.Palette {
	return domain.PaletteFor(a.ColorGroup)
}

// withDefaults fills empty fields from Default.
func (a Appearance) withDefaults() Appearance {
	d := Default()
	if a.ColorGroup == "" {
		a.ColorGroup = d.ColorGroup
	}
	if a.ImportantColor == "" {
		a.ImportantColor = d.ImportantColor
	}
	if a.ButtonScheme == "" {
		a.ButtonScheme = d.ButtonScheme
	}
	return a
}

// File stores an Appearance as YAML at a fixed path.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File backed by path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the appearance. A missing file yields Default; missing fields
// are filled from Default.
func (f *File) Load() (Appearance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Appearance{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var a Appearance
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Appearance{}, fmt.Errorf("failed to parse settings file %s: %w", f.path, err)
	}

	a = a.withDefaults()
	if err := a.Validate(); err != nil {
		return Appearance{}, fmt.Errorf("invalid settings file %s: %w", f.path, err)
	}
	return a, nil
}

// Save validates and writes the appearance atomically.
func (f *File) Save(a Appearance) error {
	if err := a.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
