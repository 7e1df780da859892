package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olicense/olicense-exporter/internal/cmd"
	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
	"github.com/olicense/olicense-exporter/internal/cmd/output"
	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/flags"
	"github.com/olicense/olicense-exporter/internal/metrics"
	"github.com/olicense/olicense-exporter/internal/printer"
)

// ScrapeCmd represents the 'scrape' command, which performs a single scrape cycle.
type ScrapeCmd struct {
	*cmd.BaseCmd
	source        sourceFlags
	Format        cmd.OutputFormat
	cfgLoader     config.Loader
	sourceFactory cmdopts.SourceFactory
	samplePrinter output.Printer[metrics.Sample]
}

// NewScrapeCmd creates a newly configured (Cobra) command.
func NewScrapeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ScrapeCmd{
		BaseCmd:       baseCmd,
		Format:        cmd.FormatText, // Default to plain text
		cfgLoader:     opts.ConfigLoader,
		sourceFactory: opts.SourceFactory,
		samplePrinter: printer.NewSamplePrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one scrape cycle and prints the series that would be exported",
		Long: "Reads the configured status source once, exactly as 'run' does on every poll, " +
			"and prints the resulting series instead of serving them.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	c.source.register(cobraCmd.Flags())
	cobraCmd.MarkFlagsMutuallyExclusive(flagNameStatusCommand, flagNameStatusFile)

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ScrapeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.samplePrinter)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c.cfgLoader, flags.ConfigFile)
	if err != nil {
		return failWith(handler, err)
	}
	if err := cfg.Apply(c.source.options(cobraCmd.Flags())...); err != nil {
		return failWith(handler, fmt.Errorf("invalid flag value: %w", err))
	}

	src, err := c.sourceFactory(logger, cfg)
	if err != nil {
		return failWith(handler, fmt.Errorf("error configuring status source: %w", err))
	}

	sink := metrics.NewMemorySink()
	p, err := newPipeline(logger, cfg, src, sink)
	if err != nil {
		return failWith(handler, err)
	}

	if err := p.exporter.Scrape(cobraCmd.Context()); err != nil {
		return failWith(handler, err)
	}

	return handler.HandleResults(sink.Samples()...)
}
