// Package errors defines domain-level errors used throughout the exporter.
// Parse and read failures are fatal for a single scrape cycle only, the poll loop treats them uniformly.
//
// NOTE: Important for developers
// When adding a new error here, consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates the raw status text was blank after trimming.
	ErrEmptyInput = errors.New("status output was empty")

	// ErrMalformedJSONObject indicates the status text was valid JSON, but not a JSON object.
	ErrMalformedJSONObject = errors.New("JSON status must be an object")

	// ErrNumericFormat indicates a value expected to be numeric could not be parsed.
	// Use NumericFormatError to retain the offending field and raw value.
	ErrNumericFormat = errors.New("invalid numeric value")

	// ErrStatusReadFailed indicates that the raw status could not be obtained from its source
	// (command exited non-zero, timed out, or the status file could not be read).
	ErrStatusReadFailed = errors.New("status read failed")

	// ErrSnapshotUnavailable indicates that no scrape has completed successfully yet.
	// Recommended to map to HTTP 404 Not Found.
	ErrSnapshotUnavailable = errors.New("no successful scrape yet")
)

// NumericFormatError reports the field and raw text of a value that failed numeric coercion.
type NumericFormatError struct {
	Field string
	Value string
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("failed to parse numeric value '%s' for %s", e.Value, e.Field)
}

// Unwrap allows errors.Is(err, ErrNumericFormat).
func (e *NumericFormatError) Unwrap() error {
	return ErrNumericFormat
}
