package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/domain"
)

const (
	ScrapeStatusOK      ScrapeStatus = "ok"
	ScrapeStatusFailed  ScrapeStatus = "failed"
	ScrapeStatusUnknown ScrapeStatus = "unknown"
)

var _ Convertible[ScrapeHealth] = DomainScrapeHealth{}

// DomainScrapeHealth is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainScrapeHealth domain.ScrapeHealth

// ScrapeStatus represents the outcome of the exporter's most recent scrape of the license server.
type ScrapeStatus string

// ScrapeHealth describes the most recent scrape cycle.
type ScrapeHealth struct {
	Status         ScrapeStatus `json:"status"`
	Duration       *string      `json:"duration,omitempty"`
	LastChecked    *time.Time   `json:"lastChecked,omitempty"`
	LastSuccessful *time.Time   `json:"lastSuccessful,omitempty"`
	LastError      string       `json:"lastError,omitempty"`
}

// ScrapeHealthResponse is the response for GET /health/scrape.
type ScrapeHealthResponse struct {
	Body ScrapeHealth
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainScrapeHealth) ToAPIType() (ScrapeHealth, error) {
	status, err := parseScrapeStatus(d.Status)
	if err != nil {
		return ScrapeHealth{}, err
	}

	var duration *string
	if d.Duration != nil {
		s := d.Duration.String()
		duration = &s
	}

	return ScrapeHealth{
		Status:         status,
		Duration:       duration,
		LastChecked:    d.LastChecked,
		LastSuccessful: d.LastSuccessful,
		LastError:      d.LastError,
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, monitor contracts.ScrapeMonitor, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getScrapeHealth",
			Method:      http.MethodGet,
			Path:        "/scrape",
			Summary:     "Get the outcome of the most recent license server scrape",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ScrapeHealthResponse, error) {
			return handleScrapeHealth(monitor)
		},
	)
}

func handleScrapeHealth(monitor contracts.ScrapeMonitor) (*ScrapeHealthResponse, error) {
	data, err := DomainScrapeHealth(monitor.Health()).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ScrapeHealthResponse{Body: data}, nil
}

func parseScrapeStatus(status domain.ScrapeStatus) (ScrapeStatus, error) {
	switch status {
	case domain.ScrapeStatusOK:
		return ScrapeStatusOK, nil
	case domain.ScrapeStatusFailed:
		return ScrapeStatusFailed, nil
	case domain.ScrapeStatusUnknown:
		return ScrapeStatusUnknown, nil
	default:
		return "", fmt.Errorf("unknown scrape status: %s", status)
	}
}
