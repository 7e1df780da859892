package api

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/status"
)

var _ Convertible[ServerStatus] = DomainServerStatus{}

// DomainServerStatus is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServerStatus status.ServerStatus

// ServerStatus is the API view of the last successfully parsed status report.
type ServerStatus struct {
	Total     *float64   `doc:"Total license seats"                  json:"total,omitempty"`
	InUse     *float64   `doc:"License seats in use"                 json:"inUse,omitempty"`
	Available *float64   `doc:"License seats available"              json:"available,omitempty"`
	Denials   *float64   `doc:"Denials reported by the server"       json:"denials,omitempty"`
	Heartbeat *time.Time `doc:"Heartbeat reported by the server"     json:"heartbeat,omitempty"`
	Features  []Feature  `doc:"Per-feature utilization, sorted by name" json:"features"`
}

// Feature is the API view of a single licensed feature.
// Values the server reported as NaN or infinite are null.
type Feature struct {
	Name     string   `json:"name"`
	Total    *float64 `json:"total"    nullable:"true"`
	InUse    *float64 `json:"inUse"    nullable:"true"`
	Borrowed *float64 `json:"borrowed" nullable:"true"`
	Denials  *float64 `json:"denials"  nullable:"true"`
}

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Body struct {
		Status         ServerStatus `doc:"Last successfully parsed status report"   json:"status"`
		ActiveFeatures []string     `doc:"Feature names currently exported as series" json:"activeFeatures"`
	}
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServerStatus) ToAPIType() (ServerStatus, error) {
	s := status.ServerStatus(d)

	var heartbeat *time.Time
	if ts := status.Finite(s.HeartbeatTS); ts != nil {
		secs, frac := math.Modf(*ts)
		t := time.Unix(int64(secs), int64(frac*float64(time.Second))).UTC()
		heartbeat = &t
	}

	features := make([]Feature, 0, len(s.Features))
	for _, name := range s.FeatureNames() {
		f := s.Features[name]
		features = append(features, Feature{
			Name:     name,
			Total:    status.Finite(&f.Total),
			InUse:    status.Finite(&f.InUse),
			Borrowed: status.Finite(&f.Borrowed),
			Denials:  status.Finite(&f.Denials),
		})
	}

	return ServerStatus{
		Total:     status.Finite(s.Total),
		InUse:     status.Finite(s.InUse),
		Available: status.Finite(s.Available),
		Denials:   status.Finite(s.Denials),
		Heartbeat: heartbeat,
		Features:  features,
	}, nil
}

// RegisterStatusRoutes sets up status-related API endpoint routes.
func RegisterStatusRoutes(
	routerAPI huma.API,
	monitor contracts.ScrapeMonitor,
	features contracts.FeatureTracker,
	apiPathPrefix string,
) {
	tags := []string{"Status"}

	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getStatus",
			Method:      http.MethodGet,
			Path:        apiPathPrefix,
			Summary:     "Get the last successfully scraped license server status",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*StatusResponse, error) {
			return handleStatus(monitor, features)
		},
	)
}

// handleStatus returns errors.ErrSnapshotUnavailable until the first scrape succeeds.
func handleStatus(monitor contracts.ScrapeMonitor, features contracts.FeatureTracker) (*StatusResponse, error) {
	snapshot, err := monitor.Snapshot()
	if err != nil {
		return nil, err
	}

	data, err := DomainServerStatus(*snapshot).ToAPIType()
	if err != nil {
		return nil, err
	}

	active := features.ActiveFeatures()
	if active == nil {
		active = []string{}
	}

	resp := &StatusResponse{}
	resp.Body.Status = data
	resp.Body.ActiveFeatures = active

	return resp, nil
}
