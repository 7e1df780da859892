package exporter

import (
	"sync"
	"time"

	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/domain"
	"github.com/olicense/olicense-exporter/internal/errors"
	"github.com/olicense/olicense-exporter/internal/status"
)

var _ contracts.ScrapeMonitor = (*ScrapeTracker)(nil)

// ScrapeTracker records the outcome of every scrape cycle and retains the last successful snapshot.
type ScrapeTracker struct {
	mu       sync.RWMutex
	health   domain.ScrapeHealth
	snapshot *status.ServerStatus
	now      func() time.Time
}

func NewScrapeTracker() *ScrapeTracker {
	return &ScrapeTracker{
		health: domain.ScrapeHealth{Status: domain.ScrapeStatusUnknown},
		now:    time.Now,
	}
}

// Health returns the outcome of the most recent scrape cycle.
func (t *ScrapeTracker) Health() domain.ScrapeHealth {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.health
}

// Snapshot returns the most recent successfully parsed status.
func (t *ScrapeTracker) Snapshot() (*status.ServerStatus, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.snapshot == nil {
		return nil, errors.ErrSnapshotUnavailable
	}

	return t.snapshot, nil
}

// RecordSuccess stores snapshot as the latest status and marks the cycle as successful.
func (t *ScrapeTracker) RecordSuccess(snapshot *status.ServerStatus, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	t.snapshot = snapshot
	t.health = domain.ScrapeHealth{
		Status:         domain.ScrapeStatusOK,
		Duration:       &duration,
		LastChecked:    &now,
		LastSuccessful: &now,
	}
}

// RecordFailure marks the cycle as failed.
// The previous snapshot and LastSuccessful are retained.
func (t *ScrapeTracker) RecordFailure(err error, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	var msg string
	if err != nil {
		msg = err.Error()
	}

	t.health = domain.ScrapeHealth{
		Status:         domain.ScrapeStatusFailed,
		Duration:       &duration,
		LastChecked:    &now,
		LastSuccessful: t.health.LastSuccessful,
		LastError:      msg,
	}
}
