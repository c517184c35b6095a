package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/persona/pkg/logger"
)

const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Validate checks the run parameters.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.Members < 1:
		return fmt.Errorf("%w: members must be positive", ErrInvalidConfig)
	case c.Groups < 1:
		return fmt.Errorf("%w: groups must be positive", ErrInvalidConfig)
	case c.Repeats < 0:
		return fmt.Errorf("%w: repeats must not be negative", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Run executes a complete seed: health check, generation, submission and
// verification. Stats are returned even when a later step fails.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "starting persona seed",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("members", cfg.Members),
		logger.Int("groups", cfg.Groups),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, client); err != nil {
		return stats, err
	}

	subs, err := generate(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}

	if err := submitAll(ctx, cfg, client, subs, stats); err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	if err := verify(ctx, cfg, client, subs, stats); err != nil {
		return stats, err
	}

	if cfg.OutputFile != "" {
		if err := saveSubmissions(ctx, cfg.OutputFile, subs); err != nil {
			logger.Get().Warn(ctx, "failed to save submissions", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, stats)
	return stats, nil
}

func checkHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.Get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

func saveSubmissions(ctx context.Context, filename string, subs []Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	logger.Get().Info(ctx, "submissions saved", logger.String("filename", filename))
	return nil
}

func logFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("created", stats.Created),
		logger.Int("updated", stats.Updated),
		logger.Int("failed", stats.Failed),
		logger.Int("groups_checked", stats.GroupsChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("submissions_per_second", perSecond),
	)
}
