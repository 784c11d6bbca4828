package config

import (
	"fmt"
	"time"

	"github.com/rezkam/dolist/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Storage         StorageConfig
	HTTP            HTTPConfig
	Auth            AuthConfig
	Reminder        ReminderConfig
	Tick            TickConfig
	Observability   ObservabilityConfig
	SettingsFile    string        `env:"DOLIST_SETTINGS_FILE" default:"dolist-settings.yaml"`
	ShutdownTimeout time.Duration `env:"DOLIST_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
// Zero values fall back to the server defaults.
type HTTPConfig struct {
	Host              string        `env:"DOLIST_HTTP_HOST"`
	Port              string        `env:"DOLIST_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"DOLIST_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"DOLIST_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"DOLIST_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"DOLIST_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"DOLIST_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"DOLIST_HTTP_MAX_BODY_BYTES"`
}

// AuthConfig holds API protection settings.
type AuthConfig struct {
	// APIKeyHash is the hex BLAKE2b hash printed by `dolist apikey`.
	// Empty disables authentication.
	APIKeyHash         string `env:"DOLIST_API_KEY_HASH"`
	RateLimitPerMinute int    `env:"DOLIST_RATE_LIMIT_PER_MINUTE" default:"600"`
	RateLimitBurst     int    `env:"DOLIST_RATE_LIMIT_BURST" default:"50"`
}

// Validate checks the key hash shape.
func (c *AuthConfig) Validate() error {
	if c.APIKeyHash != "" && len(c.APIKeyHash) != 64 {
		return fmt.Errorf("DOLIST_API_KEY_HASH must be 64 hex characters, got %d", len(c.APIKeyHash))
	}
	return nil
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
