package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olicense/olicense-exporter/internal/cmd"
	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
	"github.com/olicense/olicense-exporter/internal/cmd/output"
	"github.com/olicense/olicense-exporter/internal/printer"
	"github.com/olicense/olicense-exporter/internal/status"
)

// ParseCmd represents the 'parse' command.
type ParseCmd struct {
	*cmd.BaseCmd
	Format        cmd.OutputFormat
	statusPrinter output.Printer[status.ServerStatus]
}

// NewParseCmd creates a newly configured (Cobra) command.
func NewParseCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	if _, err := cmdopts.NewOptions(opt...); err != nil {
		return nil, err
	}

	c := &ParseCmd{
		BaseCmd:       baseCmd,
		Format:        cmd.FormatText, // Default to plain text
		statusPrinter: printer.NewStatusPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parses a status report and prints the resulting snapshot",
		Long: "Parses a single OLicense status report, read from the named file or from stdin, " +
			"and prints the server and feature values the exporter would publish.",
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ParseCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.statusPrinter)
	if err != nil {
		return err
	}

	raw, err := readReport(cobraCmd.InOrStdin(), reportArg(args))
	if err != nil {
		return failWith(handler, err)
	}

	snapshot, err := status.Parse(raw)
	if err != nil {
		return failWith(handler, err)
	}

	return handler.HandleResult(*snapshot)
}
