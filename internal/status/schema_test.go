package status

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/errors"
)

func TestCheckJSONSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		raw            string
		wantViolations bool
	}{
		{
			name:           "conforming report",
			raw:            `{"total_licenses": 10, "in_use": "4", "heartbeat": "2023-01-01T00:00:00Z", "features": [{"name": "A", "total": 2}]}`,
			wantViolations: false,
		},
		{
			name:           "feature without name",
			raw:            `{"features": [{"total": 2}]}`,
			wantViolations: true,
		},
		{
			name:           "non numeric count",
			raw:            `{"available": "plenty"}`,
			wantViolations: true,
		},
		{
			name:           "array report",
			raw:            `[]`,
			wantViolations: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations, err := CheckJSONSchema(tc.raw)
			require.NoError(t, err)
			if tc.wantViolations {
				require.NotEmpty(t, violations)
			} else {
				require.Empty(t, violations)
			}
		})
	}
}

func TestCheckJSONSchema_Errors(t *testing.T) {
	t.Parallel()

	_, err := CheckJSONSchema("  ")
	require.ErrorIs(t, err, errors.ErrEmptyInput)

	_, err = CheckJSONSchema("Total Licenses: 3")
	require.Error(t, err)
}
