package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olicense/olicense-exporter/internal/api"
	"github.com/olicense/olicense-exporter/internal/cmd"
	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/daemon"
	"github.com/olicense/olicense-exporter/internal/flags"
	"github.com/olicense/olicense-exporter/internal/metrics"
)

const (
	flagNameListenAddress = "listen-address"
	flagNameListenPort    = "listen-port"
	flagNamePollInterval  = "poll-interval"

	defaultListenAddress = "0.0.0.0"
	defaultListenPort    = 9877
)

// RunCmd represents the 'run' command, which starts the exporter.
type RunCmd struct {
	*cmd.BaseCmd
	source        sourceFlags
	ListenAddress string
	ListenPort    int
	PollInterval  time.Duration
	cfgLoader     config.Loader
	sourceFactory cmdopts.SourceFactory
}

// NewRunCmd creates a newly configured (Cobra) command.
func NewRunCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RunCmd{
		BaseCmd:       baseCmd,
		cfgLoader:     opts.ConfigLoader,
		sourceFactory: opts.SourceFactory,
	}

	cobraCommand := &cobra.Command{
		Use:   "run",
		Short: "Starts the exporter",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	c.registerFlags(cobraCommand.Flags())
	cobraCommand.MarkFlagsMutuallyExclusive(flagNameStatusCommand, flagNameStatusFile)

	return cobraCommand, nil
}

func (c *RunCmd) registerFlags(flagSet *pflag.FlagSet) {
	c.source.register(flagSet)
	flagSet.StringVar(
		&c.ListenAddress,
		flagNameListenAddress,
		defaultListenAddress,
		"Address the HTTP endpoint binds to",
	)
	flagSet.IntVar(
		&c.ListenPort,
		flagNameListenPort,
		defaultListenPort,
		"Port the HTTP endpoint binds to",
	)
	flagSet.DurationVar(
		&c.PollInterval,
		flagNamePollInterval,
		config.DefaultPollInterval,
		"Time to wait after each scrape cycle",
	)
}

func (c *RunCmd) longDescription() string {
	return fmt.Sprintf(
		"Starts the exporter: polls the license server's status report and serves the resulting "+
			"Prometheus metrics over HTTP, alongside a JSON status API under /api/%s.\n\n"+
			"Flags override the values in the config file (--%s).",
		api.APIVersion,
		flags.FlagNameConfigFile,
	)
}

// run is configured (via NewRunCmd) to be called by the Cobra framework when the command is executed.
func (c *RunCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.config(cobraCmd.Flags())
	if err != nil {
		return err
	}

	src, err := c.sourceFactory(logger, cfg)
	if err != nil {
		return fmt.Errorf("error configuring status source: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sink, err := metrics.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}

	p, err := newPipeline(logger, cfg, src, sink)
	if err != nil {
		return err
	}

	deps, err := daemon.NewDependencies(logger, cfg.APIAddr(), p.exporter, registry, p.tracker, p.reconciler)
	if err != nil {
		return fmt.Errorf("error configuring exporter daemon: %w", err)
	}

	d, err := daemon.NewDaemon(deps, daemon.WithAPIOptions(apiOptions(cfg)...))
	if err != nil {
		return fmt.Errorf("failed to create exporter daemon: %w", err)
	}

	// Create the signal handling context for the application.
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	logger.Info(
		"Starting exporter",
		"addr", cfg.APIAddr(),
		"metrics_path", cfg.MetricsPath(),
		"poll_interval", cfg.PollInterval(),
	)

	if err := d.StartAndManage(ctx); err != nil {
		logger.Error("Exporter exited with error", "error", err)
		return err
	}

	logger.Info("Exporter stopped")

	return nil
}

// config loads the config file and applies the flags the user set on top of it.
func (c *RunCmd) config(flagSet *pflag.FlagSet) (*config.Config, error) {
	cfg, err := loadConfig(c.cfgLoader, flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	opts := c.source.options(flagSet)

	if flagSet.Changed(flagNamePollInterval) {
		opts = append(opts, config.WithPollInterval(c.PollInterval))
	}

	if flagSet.Changed(flagNameListenAddress) || flagSet.Changed(flagNameListenPort) {
		addr, err := c.listenAddr(flagSet, cfg.APIAddr())
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithAPIAddr(addr))
	}

	if err := cfg.Apply(opts...); err != nil {
		return nil, fmt.Errorf("invalid flag value: %w", err)
	}

	return cfg, nil
}

// listenAddr combines the listen flags with the configured address,
// so that setting only one of host or port keeps the other from the config file.
func (c *RunCmd) listenAddr(flagSet *pflag.FlagSet, configured string) (string, error) {
	host, port, err := net.SplitHostPort(configured)
	if err != nil {
		return "", fmt.Errorf("invalid configured address '%s': %w", configured, err)
	}

	if flagSet.Changed(flagNameListenAddress) {
		host = c.ListenAddress
	}
	if flagSet.Changed(flagNameListenPort) {
		port = strconv.Itoa(c.ListenPort)
	}

	return net.JoinHostPort(host, port), nil
}

// apiOptions converts the HTTP settings of cfg into daemon options.
func apiOptions(cfg *config.Config) []daemon.APIOption {
	opts := []daemon.APIOption{
		daemon.WithMetricsPath(cfg.MetricsPath()),
		daemon.WithShutdownTimeout(cfg.ShutdownTimeout()),
	}

	cors := cfg.CORS()
	if !cors.Enabled() {
		return opts
	}

	opts = append(opts,
		daemon.WithCORSEnabled(true),
		daemon.WithCORSAllowOrigins(cors.Origins),
		daemon.WithCORSAllowCredentials(cors.AllowCredentials()),
		daemon.WithCORSMaxAge(cors.MaxAgeOrDefault()),
	)
	if len(cors.Methods) > 0 {
		opts = append(opts, daemon.WithCORSAllowMethods(cors.Methods))
	}
	if len(cors.Headers) > 0 {
		opts = append(opts, daemon.WithCORSAllowHeaders(cors.Headers))
	}
	if len(cors.ExposeHeaders) > 0 {
		opts = append(opts, daemon.WithCORSExposeHeaders(cors.ExposeHeaders))
	}

	return opts
}
