package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/cmd"
	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/contracts"
)

const textReport = `OLicense Server 4.2 status
Total Licenses: 10
In Use: 4
Available: 6
Heartbeat: 2023-01-01T00:00:00Z
Feature CAD: total=5 in_use=2 borrowed=1 denials=0
Solver 5 2 0 3
`

type fakeLoader struct {
	cfg  *config.Config
	err  error
	path string
}

func (f *fakeLoader) Load(path string) (*config.Config, error) {
	f.path = path
	return f.cfg, f.err
}

type fakeInitializer struct {
	path string
	err  error
}

func (f *fakeInitializer) Init(path string) error {
	f.path = path
	return f.err
}

type fakeSource struct {
	raw string
	err error
}

func (f *fakeSource) Read(_ context.Context) (string, error) {
	return f.raw, f.err
}

func fixedSource(src contracts.StatusSource) func(hclog.Logger, *config.Config) (contracts.StatusSource, error) {
	return func(hclog.Logger, *config.Config) (contracts.StatusSource, error) {
		return src, nil
	}
}

func testBaseCmd() *cmd.BaseCmd {
	base := &cmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())
	return base
}

func writeReport(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}
