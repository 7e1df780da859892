package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/flags"
)

const (
	flagNameStatusCommand  = "status-command"
	flagNameStatusFile     = "status-file"
	flagNameCommandTimeout = "command-timeout"
)

// sourceFlags are the flags selecting where status reports come from.
// They are shared by every command that reads from the configured source.
type sourceFlags struct {
	Command        string
	File           string
	CommandTimeout time.Duration
}

func (s *sourceFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(
		&s.Command,
		flagNameStatusCommand,
		"",
		"Command printing the status report, arguments separated by spaces (e.g. 'OLicenseServer -status')",
	)
	flagSet.StringVar(
		&s.File,
		flagNameStatusFile,
		"",
		"Read the status report from this file instead of running a command",
	)
	flagSet.DurationVar(
		&s.CommandTimeout,
		flagNameCommandTimeout,
		config.DefaultCommandTimeout,
		"Timeout for a single run of the status command",
	)
}

// options returns the config options for the flags that were explicitly set,
// so that unset flags never override values from the config file.
func (s *sourceFlags) options(flagSet *pflag.FlagSet) []config.Option {
	var opts []config.Option

	if flagSet.Changed(flagNameStatusCommand) {
		opts = append(opts, config.WithSourceCommand(strings.Fields(s.Command)))
	}
	if flagSet.Changed(flagNameStatusFile) {
		opts = append(opts, config.WithSourceFile(s.File))
	}
	if flagSet.Changed(flagNameCommandTimeout) {
		opts = append(opts, config.WithCommandTimeout(s.CommandTimeout))
	}

	return opts
}

// loadConfig loads the config file at path.
// The default config file may be absent, in which case an empty configuration is returned;
// a file named explicitly through the flag or environment variable must exist.
func loadConfig(loader config.Loader, path string) (*config.Config, error) {
	cfg, err := loader.Load(path)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, fs.ErrNotExist) && path == flags.DefaultConfigFile {
		return &config.Config{}, nil
	}

	return nil, fmt.Errorf("error loading config file: %w", err)
}
