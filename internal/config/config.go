// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Summary modes accepted by DefaultSummaryMode.
const (
	SummaryConcise  = "concise"
	SummaryDetailed = "detailed"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RolesPath points at the role catalog YAML.
	RolesPath string `koanf:"roles_path"`

	// MaxBodyBytes caps request bodies accepted by the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// DefaultSummaryMode is used when a summary request names no mode.
	DefaultSummaryMode string `koanf:"default_summary_mode"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		RolesPath:          "roles.yaml",
		MaxBodyBytes:       64 << 10,
		DefaultSummaryMode: SummaryConcise,
		ShutdownTimeout:    30 * time.Second,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.RolesPath) == "":
		return fmt.Errorf("%w: roles_path must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown_timeout must be positive, got %s", ErrInvalidConfig, c.ShutdownTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.DefaultSummaryMode) {
	case SummaryConcise, SummaryDetailed:
	default:
		return fmt.Errorf("%w: default_summary_mode must be %s or %s, got %q",
			ErrInvalidConfig, SummaryConcise, SummaryDetailed, c.DefaultSummaryMode)
	}
	return nil
}
