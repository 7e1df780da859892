// Package source reads the raw status report from the OLicense server's status command or a captured file.
package source

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/errors"
)

var (
	_ contracts.StatusSource = (*CommandSource)(nil)
	_ contracts.StatusSource = (*FileSource)(nil)
)

// CommandSource runs the status command and returns its standard output.
type CommandSource struct {
	logger  hclog.Logger
	command []string
	timeout time.Duration
}

// FileSource reads a captured status report from disk.
type FileSource struct {
	logger hclog.Logger
	path   string
}

// New returns the source selected by cfg: the status file when configured, otherwise the status command.
func New(logger hclog.Logger, cfg *config.Config) (contracts.StatusSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if path := cfg.SourceFile(); path != "" {
		return NewFileSource(logger, path)
	}

	if command := cfg.SourceCommand(); len(command) > 0 {
		return NewCommandSource(logger, command, cfg.CommandTimeout())
	}

	return nil, fmt.Errorf("either a status command or a status file must be configured")
}

// NewCommandSource creates a source executing command, bounded by timeout.
func NewCommandSource(logger hclog.Logger, command []string, timeout time.Duration) (*CommandSource, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, fmt.Errorf("status command cannot be empty")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("command timeout must be positive, got %v", timeout)
	}

	return &CommandSource{
		logger:  logger.Named("source"),
		command: slices.Clone(command),
		timeout: timeout,
	}, nil
}

// Read executes the status command and returns its standard output.
// A non-zero exit status, a timeout or a failure to start the command wraps errors.ErrStatusReadFailed.
func (s *CommandSource) Read(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("Executing status command", "command", strings.Join(s.command, " "))

	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stdErrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: status command timed out after %s", errors.ErrStatusReadFailed, s.timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: status command failed: %w: %s", errors.ErrStatusReadFailed, err, msg)
		}
		return "", fmt.Errorf("%w: status command failed: %w", errors.ErrStatusReadFailed, err)
	}

	s.logger.Debug("Status command completed", "bytes", stdout.Len())

	return stdout.String(), nil
}

// NewFileSource creates a source reading the report at path on every cycle.
func NewFileSource(logger hclog.Logger, path string) (*FileSource, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("status file path cannot be empty")
	}

	return &FileSource{
		logger: logger.Named("source"),
		path:   path,
	}, nil
}

// Read returns the current content of the status file.
func (s *FileSource) Read(_ context.Context) (string, error) {
	s.logger.Debug("Reading status file", "path", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrStatusReadFailed, err)
	}

	return string(data), nil
}
