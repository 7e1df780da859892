package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olicense/olicense-exporter/internal/contracts"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:9877").
	APIAddr string

	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger

	// Poller runs the scrape cycles.
	Poller contracts.Poller

	// Gatherer exposes the registry the poller publishes into.
	Gatherer prometheus.Gatherer

	// Monitor provides the outcome of the most recent scrape cycle.
	Monitor contracts.ScrapeMonitor

	// Features provides the feature names currently exported.
	Features contracts.FeatureTracker
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	poller contracts.Poller,
	gatherer prometheus.Gatherer,
	monitor contracts.ScrapeMonitor,
	features contracts.FeatureTracker,
) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:  apiAddr,
		Logger:   logger,
		Poller:   poller,
		Gatherer: gatherer,
		Monitor:  monitor,
		Features: features,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := IsValidAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if d.Poller == nil || reflect.ValueOf(d.Poller).IsNil() {
		return fmt.Errorf("poller cannot be nil")
	}

	return nil
}
