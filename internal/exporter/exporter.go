// Package exporter drives the poll loop turning status reports into published series.
package exporter

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/metrics"
	"github.com/olicense/olicense-exporter/internal/reconcile"
	"github.com/olicense/olicense-exporter/internal/status"
)

// Dependencies holds the required collaborators of an Exporter.
type Dependencies struct {
	Logger     hclog.Logger
	Source     contracts.StatusSource
	Sink       contracts.MetricSink
	Reconciler *reconcile.Reconciler
	Tracker    *ScrapeTracker
}

// Validate returns an error if any dependency is missing.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Source == nil || reflect.ValueOf(d.Source).IsNil() {
		return fmt.Errorf("status source cannot be nil")
	}
	if d.Sink == nil || reflect.ValueOf(d.Sink).IsNil() {
		return fmt.Errorf("metric sink cannot be nil")
	}
	if d.Reconciler == nil {
		return fmt.Errorf("reconciler cannot be nil")
	}
	if d.Tracker == nil {
		return fmt.Errorf("scrape tracker cannot be nil")
	}

	return nil
}

// Exporter runs scrape cycles on a fixed interval.
// NewExporter should be used to create instances of Exporter.
type Exporter struct {
	logger     hclog.Logger
	source     contracts.StatusSource
	sink       contracts.MetricSink
	reconciler *reconcile.Reconciler
	tracker    *ScrapeTracker
	interval   time.Duration
	clock      func() time.Time
}

// NewExporter creates an Exporter from deps, applying opts on top of the defaults.
func NewExporter(deps Dependencies, opt ...Option) (*Exporter, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for exporter: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid exporter options: %w", err)
	}

	return &Exporter{
		logger:     deps.Logger.Named("exporter"),
		source:     deps.Source,
		sink:       deps.Sink,
		reconciler: deps.Reconciler,
		tracker:    deps.Tracker,
		interval:   opts.Interval,
		clock:      opts.Clock,
	}, nil
}

// Scrape runs a single cycle: read, parse, record server scalars, reconcile features.
// On failure, feature series and the active feature set are left untouched and scrape success is set to 0.
// Scrape duration is recorded in both cases.
func (e *Exporter) Scrape(ctx context.Context) error {
	start := e.clock()

	snapshot, err := e.collect(ctx)
	duration := e.clock().Sub(start)

	if err != nil {
		e.logger.Error("Failed to scrape OLicense status", "error", err)
		e.sink.Upsert(metrics.ScrapeSuccess, nil, 0)
		e.tracker.RecordFailure(err, duration)
	} else {
		e.sink.Upsert(metrics.ScrapeSuccess, nil, 1)
		e.tracker.RecordSuccess(snapshot, duration)
		e.logger.Debug("Scrape completed", "features", len(snapshot.Features), "duration", duration)
	}

	e.sink.Upsert(metrics.ScrapeDuration, nil, duration.Seconds())

	return err
}

func (e *Exporter) collect(ctx context.Context) (*status.ServerStatus, error) {
	raw, err := e.source.Read(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := status.Parse(raw)
	if err != nil {
		return nil, err
	}

	e.recordServer(snapshot)
	e.reconciler.Reconcile(snapshot.Features)

	return snapshot, nil
}

// recordServer publishes the known server scalars; unknown ones keep their previous value.
func (e *Exporter) recordServer(s *status.ServerStatus) {
	for series, v := range map[metrics.Series]*float64{
		metrics.ServerTotal:     s.Total,
		metrics.ServerInUse:     s.InUse,
		metrics.ServerAvailable: s.Available,
		metrics.ServerDenials:   s.Denials,
		metrics.ServerHeartbeat: s.HeartbeatTS,
	} {
		if v != nil {
			e.sink.Upsert(series, nil, *v)
		}
	}
}

// Run scrapes immediately and then after every interval until ctx is cancelled.
// Failed cycles never stop the loop.
func (e *Exporter) Run(ctx context.Context) error {
	e.logger.Info("Starting OLicense exporter", "interval", e.interval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping OLicense exporter")
			return ctx.Err()
		case <-timer.C:
			_ = e.Scrape(ctx)
			timer.Reset(e.interval)
		}
	}
}
