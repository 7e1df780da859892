// Package daemon runs the poll loop alongside the HTTP server exposing its results.
package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/olicense/olicense-exporter/internal/contracts"
)

// Daemon runs the exporter's poll loop and its API server until shutdown.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	poller    contracts.Poller
	apiServer *APIServer
}

// NewDaemon creates a Daemon from deps, applying opts on top of the defaults.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, deps.Gatherer, deps.Monitor, deps.Features, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid API dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:    deps.Logger.Named("daemon"),
		poller:    deps.Poller,
		apiServer: apiServer,
	}, nil
}

// StartAndManage runs the poll loop and the API server until ctx is cancelled or either of them fails.
// Cancellation of ctx is a clean shutdown and returns nil.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.poller.Run(gCtx)
	})

	g.Go(func() error {
		return d.apiServer.Start(gCtx)
	})

	err := g.Wait()
	if ctx.Err() != nil && (err == nil || stdErrors.Is(err, context.Canceled)) {
		d.logger.Info("Daemon stopped")
		return nil
	}

	return err
}

// IsValidAddr returns an error if the address is not a valid "host:port" string.
func IsValidAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	// Try parsing port as a number
	if _, err := strconv.Atoi(port); err != nil {
		// Try looking up the named port
		if _, err := net.LookupPort("tcp", port); err != nil {
			return fmt.Errorf("invalid address port: %s", port)
		}
	}

	// An empty host listens on all interfaces.
	return nil
}
