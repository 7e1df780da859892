package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olicense/olicense-exporter/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:9877").
	Addr string

	// Logger for API server operations.
	Logger hclog.Logger

	// Gatherer exposes the registry holding the exported series.
	Gatherer prometheus.Gatherer

	// Monitor provides the outcome of the most recent scrape cycle.
	Monitor contracts.ScrapeMonitor

	// Features provides the feature names currently exported.
	Features contracts.FeatureTracker
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	gatherer prometheus.Gatherer,
	monitor contracts.ScrapeMonitor,
	features contracts.FeatureTracker,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:     addr,
		Logger:   logger,
		Gatherer: gatherer,
		Monitor:  monitor,
		Features: features,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := IsValidAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Gatherer == nil || reflect.ValueOf(d.Gatherer).IsNil() {
		return fmt.Errorf("metrics gatherer cannot be nil")
	}
	if d.Monitor == nil || reflect.ValueOf(d.Monitor).IsNil() {
		return fmt.Errorf("scrape monitor cannot be nil")
	}
	if d.Features == nil || reflect.ValueOf(d.Features).IsNil() {
		return fmt.Errorf("feature tracker cannot be nil")
	}
	return nil
}
