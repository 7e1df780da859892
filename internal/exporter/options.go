package exporter

import (
	"fmt"
	"time"

	"github.com/olicense/olicense-exporter/internal/config"
)

// Options contains optional configuration for the Exporter.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Interval is the time to wait after each scrape cycle.
	Interval time.Duration

	// Clock supplies the current time used to measure scrape duration.
	Clock func() time.Time
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with defaults, then applies opts in order.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Interval: config.DefaultPollInterval,
		Clock:    time.Now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithInterval configures the time between scrape cycles.
func WithInterval(interval time.Duration) Option {
	return func(o *Options) error {
		if interval <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", interval)
		}
		o.Interval = interval
		return nil
	}
}

// WithClock configures the time source used to measure scrape duration.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.Clock = clock
		return nil
	}
}
