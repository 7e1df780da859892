package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/errors"
	"github.com/olicense/olicense-exporter/internal/status"
)

func TestParseCmd_TextFromFile(t *testing.T) {
	t.Parallel()

	c, err := NewParseCmd(testBaseCmd())
	require.NoError(t, err)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{writeReport(t, textReport)})

	require.NoError(t, c.Execute())
	require.Contains(t, out.String(), "Total licenses:  10")
	require.Contains(t, out.String(), "Denials:         unknown")
	require.Contains(t, out.String(), "Heartbeat:       2023-01-01T00:00:00Z (1672531200)")
	require.Contains(t, out.String(), "Features (2):")
	require.Contains(t, out.String(), "CAD")
	require.Contains(t, out.String(), "Solver")
}

func TestParseCmd_JSONFromStdin(t *testing.T) {
	t.Parallel()

	c, err := NewParseCmd(testBaseCmd())
	require.NoError(t, err)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetIn(strings.NewReader(`{"total": 3, "features": [{"name": "A", "total": 3, "in_use": "1"}]}`))
	c.SetArgs([]string{"-", "--format", "json"})

	require.NoError(t, c.Execute())

	var payload struct {
		Result status.ServerStatus `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	require.NotNil(t, payload.Result.Total)
	require.Equal(t, 3.0, *payload.Result.Total)
	require.Nil(t, payload.Result.InUse)
	require.Equal(t, status.FeatureStatus{Total: 3, InUse: 1}, payload.Result.Features["A"])
}

func TestParseCmd_JSONNonFinite(t *testing.T) {
	t.Parallel()

	c, err := NewParseCmd(testBaseCmd())
	require.NoError(t, err)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetIn(strings.NewReader("Total Licenses: inf\nIn Use: 2\nDesign 1 1 0 0\n"))
	c.SetArgs([]string{"-", "--format", "json"})

	require.NoError(t, c.Execute())

	var payload struct {
		Result status.ServerStatus `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	require.Nil(t, payload.Result.Total)
	require.Equal(t, 2.0, *payload.Result.InUse)
	require.Equal(t, status.FeatureStatus{Total: 1, InUse: 1}, payload.Result.Features["Design"])
}

func TestParseCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr error
		wantOut string
	}{
		{
			name:    "empty report",
			stdin:   "  \n",
			wantErr: errors.ErrEmptyInput,
		},
		{
			name:    "json array",
			args:    []string{"--format", "json"},
			stdin:   "[1]",
			wantErr: errors.ErrMalformedJSONObject,
			wantOut: `"error"`,
		},
		{
			name:    "numeric format",
			stdin:   "Total Licenses: many",
			wantErr: errors.ErrNumericFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewParseCmd(testBaseCmd())
			require.NoError(t, err)

			var out bytes.Buffer
			c.SetOut(&out)
			c.SetErr(&bytes.Buffer{})
			c.SetIn(strings.NewReader(tc.stdin))
			c.SetArgs(append([]string{}, tc.args...))

			err = c.Execute()
			require.ErrorIs(t, err, tc.wantErr)
			require.Contains(t, out.String(), tc.wantOut)
		})
	}
}

func TestParseCmd_MissingFile(t *testing.T) {
	t.Parallel()

	c, err := NewParseCmd(testBaseCmd())
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"/does/not/exist.txt"})

	require.ErrorContains(t, c.Execute(), "error reading report '/does/not/exist.txt'")
}

func TestParseCmd_InvalidFormat(t *testing.T) {
	t.Parallel()

	c, err := NewParseCmd(testBaseCmd())
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--format", "xml"})

	require.ErrorContains(t, c.Execute(), "invalid format 'xml'")
}
