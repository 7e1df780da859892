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

// CheckCmd represents the 'check' command.
type CheckCmd struct {
	*cmd.BaseCmd
	Format       cmd.OutputFormat
	checkPrinter output.Printer[printer.CheckResult]
}

// NewCheckCmd creates a newly configured (Cobra) command.
func NewCheckCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	if _, err := cmdopts.NewOptions(opt...); err != nil {
		return nil, err
	}

	c := &CheckCmd{
		BaseCmd:      baseCmd,
		Format:       cmd.FormatText, // Default to plain text
		checkPrinter: printer.NewCheckPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Checks that a status report can be exported",
		Long: "Checks a single OLicense status report, read from the named file or from stdin.\n\n" +
			"JSON reports are validated against the recommended report schema; violations are reported " +
			"but do not fail the check. The check fails only when the exporter could not parse the report.",
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

func (c *CheckCmd) run(cobraCmd *cobra.Command, args []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.checkPrinter)
	if err != nil {
		return err
	}

	path := reportArg(args)
	raw, err := readReport(cobraCmd.InOrStdin(), path)
	if err != nil {
		return failWith(handler, err)
	}

	snapshot, err := status.Parse(raw)
	if err != nil {
		logger.Error("Report cannot be parsed", "report", path, "error", err)
		return failWith(handler, err)
	}

	result := printer.CheckResult{
		Source:     path,
		Grammar:    string(status.DetectGrammar(raw)),
		Violations: []string{},
		Features:   snapshot.FeatureNames(),
	}

	if result.Grammar == string(status.GrammarJSON) {
		violations, err := status.CheckJSONSchema(raw)
		if err != nil {
			return failWith(handler, err)
		}
		result.Violations = violations
		if len(violations) > 0 {
			logger.Warn("Report does not conform to the report schema", "report", path, "violations", len(violations))
		}
	}

	return handler.HandleResult(result)
}
