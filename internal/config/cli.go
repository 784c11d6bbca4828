package config

import (
	"fmt"

	"github.com/rezkam/dolist/internal/env"
)

// CLIConfig holds configuration for the dolist command line tool.
// Command line flags override these values.
type CLIConfig struct {
	Storage      StorageConfig
	Reminder     ReminderConfig
	Tick         TickConfig
	SettingsFile string `env:"DOLIST_SETTINGS_FILE" default:"dolist-settings.yaml"`
	LogLevel     string `env:"DOLIST_LOG_LEVEL" default:"warn"`
}

// LoadCLIConfig loads and validates CLI configuration from environment.
func LoadCLIConfig() (*CLIConfig, error) {
	cfg := &CLIConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load cli config: %w", err)
	}

	return cfg, nil
}
