package domain

import "time"

const (
	ScrapeStatusOK      ScrapeStatus = "ok"
	ScrapeStatusFailed  ScrapeStatus = "failed"
	ScrapeStatusUnknown ScrapeStatus = "unknown"
)

// ScrapeStatus represents the outcome of a scrape cycle.
type ScrapeStatus string

// ScrapeHealth tracks the internal state of the exporter's most recent scrape.
type ScrapeHealth struct {
	Status         ScrapeStatus
	Duration       *time.Duration
	LastChecked    *time.Time
	LastSuccessful *time.Time
	LastError      string
}
