package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olicense/olicense-exporter/internal/cmd/output"
)

// stdinArg names standard input as the report location.
const stdinArg = "-"

// reportArg returns the report location given on the command line, defaulting to stdin.
func reportArg(args []string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return stdinArg
	}
	return strings.TrimSpace(args[0])
}

// readReport reads a raw status report from path, or from in when path is stdinArg.
func readReport(in io.Reader, path string) (string, error) {
	if path == stdinArg {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("error reading report from stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading report '%s': %w", path, err)
	}

	return string(b), nil
}

// failWith renders err through the handler and still returns it, so the command exits non-zero.
func failWith[T any](handler output.Handler[T], err error) error {
	if hErr := handler.HandleError(err); hErr != nil {
		return hErr
	}
	return err
}
