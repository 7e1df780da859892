// Package status parses the raw output of the OLicense status command into a ServerStatus snapshot.
//
// Two grammars are supported. JSON objects are tried first; anything that is not valid JSON falls
// back to a permissive line-oriented text grammar that ignores lines it does not recognize, so that
// report sections added by newer server versions do not fail the whole parse.
package status

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olicense/olicense-exporter/internal/errors"
)

// Grammar identifies the report format a status report is parsed with.
type Grammar string

const (
	GrammarJSON Grammar = "json"
	GrammarText Grammar = "text"
)

// DetectGrammar reports the grammar Parse selects for raw.
func DetectGrammar(raw string) Grammar {
	if json.Valid([]byte(strings.TrimSpace(raw))) {
		return GrammarJSON
	}
	return GrammarText
}

// Parse converts raw status output into a ServerStatus.
// It returns an error wrapping errors.ErrEmptyInput, errors.ErrMalformedJSONObject or
// errors.ErrNumericFormat when the report cannot be used.
// A report with no recognizable content yields an empty, successful snapshot.
func Parse(raw string) (*ServerStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.ErrEmptyInput
	}

	if DetectGrammar(raw) == GrammarJSON {
		return parseJSON(raw)
	}

	return parseText(raw)
}

// parseFailure wraps a fatal parse error with the grammar that produced it.
func parseFailure(grammar string, err error) error {
	return fmt.Errorf("failed to parse %s status: %w", grammar, err)
}
