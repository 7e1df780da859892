package cmd

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/exporter"
	"github.com/olicense/olicense-exporter/internal/reconcile"
)

// pipeline is the set of collaborators performing scrape cycles against one sink.
type pipeline struct {
	exporter   *exporter.Exporter
	reconciler *reconcile.Reconciler
	tracker    *exporter.ScrapeTracker
}

func newPipeline(
	logger hclog.Logger,
	cfg *config.Config,
	src contracts.StatusSource,
	sink contracts.MetricSink,
) (*pipeline, error) {
	reconciler, err := reconcile.NewReconciler(logger, sink)
	if err != nil {
		return nil, fmt.Errorf("error creating feature reconciler: %w", err)
	}

	tracker := exporter.NewScrapeTracker()

	exp, err := exporter.NewExporter(
		exporter.Dependencies{
			Logger:     logger,
			Source:     src,
			Sink:       sink,
			Reconciler: reconciler,
			Tracker:    tracker,
		},
		exporter.WithInterval(cfg.PollInterval()),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating exporter: %w", err)
	}

	return &pipeline{
		exporter:   exp,
		reconciler: reconciler,
		tracker:    tracker,
	}, nil
}
