package cmd

import (
	"bytes"
	stdErrors "errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/errors"
	"github.com/olicense/olicense-exporter/internal/metrics"
)

func TestScrapeCmd_Text(t *testing.T) {
	t.Parallel()

	c, err := NewScrapeCmd(
		testBaseCmd(),
		cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}),
		cmdopts.WithSourceFactory(fixedSource(&fakeSource{raw: textReport})),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{})

	require.NoError(t, c.Execute())
	require.Contains(t, out.String(), "olicense_server_total_licenses 10\n")
	require.Contains(t, out.String(), "olicense_server_heartbeat_timestamp 1.6725312e+09\n")
	require.Contains(t, out.String(), `olicense_feature_licenses_borrowed{feature="CAD"} 1`+"\n")
	require.Contains(t, out.String(), `olicense_feature_denials_total{feature="Solver"} 3`+"\n")
	require.Contains(t, out.String(), "olicense_exporter_scrape_success 1\n")
	require.NotContains(t, out.String(), "olicense_server_denials_total")
}

func TestScrapeCmd_YAML(t *testing.T) {
	t.Parallel()

	c, err := NewScrapeCmd(
		testBaseCmd(),
		cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}),
		cmdopts.WithSourceFactory(fixedSource(&fakeSource{raw: `{"features": [{"name": "A", "total": 4}]}`})),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--format", "yaml"})

	require.NoError(t, c.Execute())

	var payload struct {
		Results []metrics.Sample `yaml:"results"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &payload))
	require.Contains(t, payload.Results, metrics.Sample{
		Series: metrics.FeatureTotal,
		Labels: metrics.FeatureLabels("A"),
		Value:  4,
	})
}

func TestScrapeCmd_SourceFlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	var got *config.Config
	factory := func(_ hclog.Logger, cfg *config.Config) (contracts.StatusSource, error) {
		got = cfg
		return &fakeSource{raw: "Total Licenses: 1"}, nil
	}

	loaded := &config.Config{Source: &config.SourceSection{Command: []string{"OLicenseServer", "-status"}}}

	c, err := NewScrapeCmd(
		testBaseCmd(),
		cmdopts.WithConfigLoader(&fakeLoader{cfg: loaded}),
		cmdopts.WithSourceFactory(factory),
	)
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetArgs([]string{"--status-file", "/var/lib/olicense/status.txt", "--command-timeout", "3s"})

	require.NoError(t, c.Execute())
	require.NotNil(t, got)
	require.Equal(t, "/var/lib/olicense/status.txt", got.SourceFile())
	require.Nil(t, got.SourceCommand())
}

func TestScrapeCmd_Failures(t *testing.T) {
	t.Parallel()

	readErr := stdErrors.New("license server unreachable")

	tests := []struct {
		name    string
		opts    []cmdopts.CmdOption
		args    []string
		wantErr error
	}{
		{
			name: "source read failure",
			opts: []cmdopts.CmdOption{
				cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}),
				cmdopts.WithSourceFactory(fixedSource(&fakeSource{err: readErr})),
			},
			wantErr: readErr,
		},
		{
			name: "parse failure",
			opts: []cmdopts.CmdOption{
				cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}),
				cmdopts.WithSourceFactory(fixedSource(&fakeSource{raw: ""})),
			},
			wantErr: errors.ErrEmptyInput,
		},
		{
			name: "config failure",
			opts: []cmdopts.CmdOption{
				cmdopts.WithConfigLoader(&fakeLoader{err: config.ErrConfigLoadFailed}),
			},
			wantErr: config.ErrConfigLoadFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewScrapeCmd(testBaseCmd(), tc.opts...)
			require.NoError(t, err)
			c.SetOut(&bytes.Buffer{})
			c.SetErr(&bytes.Buffer{})
			c.SetArgs(append([]string{}, tc.args...))

			require.ErrorIs(t, c.Execute(), tc.wantErr)
		})
	}
}

func TestScrapeCmd_NoSourceConfigured(t *testing.T) {
	t.Parallel()

	c, err := NewScrapeCmd(testBaseCmd(), cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}))
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{})

	require.ErrorContains(t, c.Execute(), "error configuring status source")
}

func TestScrapeCmd_MutuallyExclusiveSourceFlags(t *testing.T) {
	t.Parallel()

	c, err := NewScrapeCmd(testBaseCmd(), cmdopts.WithConfigLoader(&fakeLoader{cfg: &config.Config{}}))
	require.NoError(t, err)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--status-command", "OLicenseServer -status", "--status-file", "status.txt"})

	require.Error(t, c.Execute())
}
