package repository

import "time"

// Option applies a configuration option to the InMemoryRegistry.
type Option func(*InMemoryRegistry)

// WithMetricsUpdateInterval sets the interval for background size gauges.
// Zero disables the updater.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(r *InMemoryRegistry) {
		if interval >= 0 {
			r.metricsUpdateInterval = interval
		}
	}
}

// WithClock overrides the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *InMemoryRegistry) {
		if now != nil {
			r.now = now
		}
	}
}
