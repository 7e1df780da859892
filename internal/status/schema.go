package status

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/olicense/olicense-exporter/internal/errors"
)

//go:embed report.schema.json
var reportSchema string

// CheckJSONSchema validates a JSON status report against the recommended report schema.
// It returns one description per violation; an empty result means the report conforms.
// Violations are advisory: Parse accepts many reports that the schema rejects.
// An error is returned only when raw is blank or not JSON at all.
func CheckJSONSchema(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.ErrEmptyInput
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(reportSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate status report: %w", err)
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}

	return violations, nil
}
