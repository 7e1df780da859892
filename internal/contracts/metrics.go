package contracts

import (
	"context"

	"github.com/olicense/olicense-exporter/internal/domain"
	"github.com/olicense/olicense-exporter/internal/metrics"
	"github.com/olicense/olicense-exporter/internal/status"
)

// MetricSink stores published series; implementations must tolerate concurrent readers during writes.
type MetricSink interface {
	// Upsert sets the value of the series identified by labels, creating it when absent.
	Upsert(series metrics.Series, labels metrics.Labels, value float64)

	// Remove deletes the series identified by labels, reporting whether it existed.
	Remove(series metrics.Series, labels metrics.Labels) bool
}

// StatusSource produces the raw output of the license server's status command.
type StatusSource interface {
	// Read returns the raw status text for one poll cycle.
	Read(ctx context.Context) (string, error)
}

// ScrapeMonitor provides read access to the outcome of the exporter's scrape cycles.
type ScrapeMonitor interface {
	// Health returns the outcome of the most recent scrape cycle.
	Health() domain.ScrapeHealth

	// Snapshot returns the most recent successfully parsed status.
	Snapshot() (*status.ServerStatus, error)
}

// FeatureTracker exposes the feature names currently published.
type FeatureTracker interface {
	// ActiveFeatures returns the sorted feature names recorded by the last successful cycle.
	ActiveFeatures() []string
}

// Poller runs scrape cycles until its context is cancelled.
type Poller interface {
	// Run blocks until ctx is cancelled, returning ctx.Err().
	Run(ctx context.Context) error
}
