package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/domain"
	"github.com/olicense/olicense-exporter/internal/errors"
	"github.com/olicense/olicense-exporter/internal/status"
)

type fakeMonitor struct {
	health   domain.ScrapeHealth
	snapshot *status.ServerStatus
}

func (f *fakeMonitor) Health() domain.ScrapeHealth {
	return f.health
}

func (f *fakeMonitor) Snapshot() (*status.ServerStatus, error) {
	if f.snapshot == nil {
		return nil, errors.ErrSnapshotUnavailable
	}
	return f.snapshot, nil
}

type fakeFeatures []string

func (f fakeFeatures) ActiveFeatures() []string {
	return f
}

func TestParseScrapeStatus_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    domain.ScrapeStatus
		expected ScrapeStatus
	}{
		{"ok", domain.ScrapeStatusOK, ScrapeStatusOK},
		{"failed", domain.ScrapeStatusFailed, ScrapeStatusFailed},
		{"unknown", domain.ScrapeStatusUnknown, ScrapeStatusUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseScrapeStatus(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestParseScrapeStatus_InvalidCase(t *testing.T) {
	t.Parallel()

	input := domain.ScrapeStatus("invalid-status")
	_, err := parseScrapeStatus(input)
	require.EqualError(t, err, fmt.Sprintf("unknown scrape status: %s", input))
}

func TestHandleScrapeHealth(t *testing.T) {
	t.Parallel()

	checked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	duration := 250 * time.Millisecond
	monitor := &fakeMonitor{health: domain.ScrapeHealth{
		Status:      domain.ScrapeStatusFailed,
		Duration:    &duration,
		LastChecked: &checked,
		LastError:   "status read failed",
	}}

	resp, err := handleScrapeHealth(monitor)
	require.NoError(t, err)
	require.Equal(t, ScrapeStatusFailed, resp.Body.Status)
	require.Equal(t, "250ms", *resp.Body.Duration)
	require.Equal(t, checked, *resp.Body.LastChecked)
	require.Nil(t, resp.Body.LastSuccessful)
	require.Equal(t, "status read failed", resp.Body.LastError)
}

func TestHandleScrapeHealth_Unknown(t *testing.T) {
	t.Parallel()

	resp, err := handleScrapeHealth(&fakeMonitor{health: domain.ScrapeHealth{Status: domain.ScrapeStatusUnknown}})
	require.NoError(t, err)
	require.Equal(t, ScrapeStatusUnknown, resp.Body.Status)
	require.Nil(t, resp.Body.Duration)

	_, err = handleScrapeHealth(&fakeMonitor{})
	require.Error(t, err)
}
