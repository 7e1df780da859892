// Package cmd holds the olicense-exporter cobra commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olicense/olicense-exporter/internal/cmd"
	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
	"github.com/olicense/olicense-exporter/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it against os.Args.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command and attaches every subcommand.
// Options are passed through to each subcommand, which allows collaborators to be replaced in tests.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           cmd.AppName + " <command> [args]",
		Short:         "Prometheus exporter for OLicense license servers",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewRunCmd,
		NewParseCmd,
		NewCheckCmd,
		NewScrapeCmd,
		NewInitCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `olicense-exporter polls an OLicense license server's status report and publishes
license utilization as Prometheus metrics.

Use 'run' to start the exporter, or 'parse', 'check' and 'scrape' to inspect reports
and the series they produce without starting a server.`
}
