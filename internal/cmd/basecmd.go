// Package cmd holds the shared plumbing of the olicense-exporter commands: logger construction and output formats.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/flags"
	"github.com/olicense/olicense-exporter/internal/perms"
)

// AppName is the name of the binary and of the root logger.
const AppName = "olicense-exporter"

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the logger for the command, creating it from the global flags on first use.
// Logs go to the file named by --log-path, or to stderr when no path is set.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	level, err := ParseLogLevel(flags.LogLevel)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stderr
	if logPath := strings.TrimSpace(flags.LogPath); logPath != "" {
		f, err := os.OpenFile(logPath, perms.LogFileFlags, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  level,
		Output: output,
	})

	return c.logger, nil
}

// ParseLogLevel converts a log level name into an hclog.Level.
// An empty name selects the default level.
func ParseLogLevel(name string) (hclog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = flags.DefaultLogLevel
	}

	switch name {
	case "trace", "debug", "info", "warn", "error", "off":
		return hclog.LevelFromString(name), nil
	default:
		return hclog.NoLevel, fmt.Errorf("invalid log level '%s', must be one of trace, debug, info, warn, error, off", name)
	}
}
