//go:build docsgen_api
// +build docsgen_api

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/api"
	internalcmd "github.com/olicense/olicense-exporter/internal/cmd"
	"github.com/olicense/olicense-exporter/internal/domain"
	"github.com/olicense/olicense-exporter/internal/errors"
	"github.com/olicense/olicense-exporter/internal/status"
)

// stubMonitor provides a stub implementation for documentation generation.
type stubMonitor struct{}

func (s *stubMonitor) Health() domain.ScrapeHealth { return domain.ScrapeHealth{} }
func (s *stubMonitor) Snapshot() (*status.ServerStatus, error) {
	return nil, errors.ErrSnapshotUnavailable
}

// stubFeatures provides a stub implementation for documentation generation.
type stubFeatures struct{}

func (s *stubFeatures) ActiveFeatures() []string { return nil }

// main generates the OpenAPI specification for the exporter's status API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   internalcmd.AppName + ".docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the daemon).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Create Huma config and router (same as the daemon).
	config := huma.DefaultConfig(internalcmd.AppName+" docs", api.APIVersion)
	router := humachi.New(mux, config)

	// The OpenAPI spec generation only needs the route definitions, not the actual handlers.
	apiPathPrefix, err := api.RegisterRoutes(router, &stubMonitor{}, &stubFeatures{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0o644); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
