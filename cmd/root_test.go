package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	cmdopts "github.com/olicense/olicense-exporter/internal/cmd/options"
)

// Root command tests are not parallel: building the root command binds the global flags.

func TestNewRootCmd(t *testing.T) {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: testBaseCmd()})
	require.NoError(t, err)
	require.Equal(t, version, rootCmd.Version)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"run", "parse", "check", "scrape", "init"}, names)

	for _, name := range []string{"config-file", "log-path", "log-level"} {
		require.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing global flag %s", name)
	}
}

func TestNewRootCmd_InvalidOption(t *testing.T) {
	_, err := NewRootCmd(&RootCmd{BaseCmd: testBaseCmd()}, cmdopts.WithConfigLoader(nil))
	require.EqualError(t, err, "config loader cannot be nil")
}
