package config

import (
	"fmt"
	"log/slog"
)

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"DOLIST_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
	LogLevel    string `env:"DOLIST_LOG_LEVEL" default:"info"`
}

// Validate checks the log level.
func (c *ObservabilityConfig) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *ObservabilityConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid DOLIST_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
