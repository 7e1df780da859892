// Package reconcile keeps the published per-feature series in step with the latest snapshot.
package reconcile

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/metrics"
	"github.com/olicense/olicense-exporter/internal/status"
)

var _ contracts.FeatureTracker = (*Reconciler)(nil)

// Reconciler upserts the series of every reported feature and removes the series of features that
// disappeared since the previous successful cycle.
// NewReconciler should be used to create instances of Reconciler.
type Reconciler struct {
	logger hclog.Logger
	sink   contracts.MetricSink

	mu     sync.RWMutex
	active map[string]struct{}
}

// NewReconciler creates a Reconciler with an empty active feature set.
func NewReconciler(logger hclog.Logger, sink contracts.MetricSink) (*Reconciler, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if sink == nil || reflect.ValueOf(sink).IsNil() {
		return nil, fmt.Errorf("metric sink cannot be nil")
	}

	return &Reconciler{
		logger: logger.Named("reconciler"),
		sink:   sink,
		active: map[string]struct{}{},
	}, nil
}

// Reconcile publishes features and drops the series of stale ones.
// After it returns, the sink holds feature series for exactly the names in features.
func (r *Reconciler) Reconcile(features map[string]status.FeatureStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := make(map[string]struct{}, len(features))
	for name, f := range features {
		current[name] = struct{}{}
		labels := metrics.FeatureLabels(name)
		r.sink.Upsert(metrics.FeatureTotal, labels, f.Total)
		r.sink.Upsert(metrics.FeatureInUse, labels, f.InUse)
		r.sink.Upsert(metrics.FeatureBorrowed, labels, f.Borrowed)
		r.sink.Upsert(metrics.FeatureDenials, labels, f.Denials)
	}

	for name := range r.active {
		if _, ok := current[name]; ok {
			continue
		}

		r.logger.Debug("Removing stale feature metrics", "feature", name)
		labels := metrics.FeatureLabels(name)
		for _, series := range metrics.FeatureSeries() {
			r.sink.Remove(series, labels)
		}
	}

	r.active = current
}

// ActiveFeatures returns the sorted feature names recorded by the last reconciliation.
func (r *Reconciler) ActiveFeatures() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.active))
}
