package source

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/errors"
)

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	cfg := &config.Config{}
	_, err := New(logger, cfg)
	require.Error(t, err)

	_, err = New(logger, nil)
	require.Error(t, err)

	require.NoError(t, cfg.Apply(config.WithSourceFile("/tmp/status.txt")))
	src, err := New(logger, cfg)
	require.NoError(t, err)
	require.IsType(t, &FileSource{}, src)

	require.NoError(t, cfg.Apply(config.WithSourceCommand([]string{"OLicenseServer", "-status"})))
	src, err = New(logger, cfg)
	require.NoError(t, err)
	require.IsType(t, &CommandSource{}, src)
	require.Equal(t, config.DefaultCommandTimeout, src.(*CommandSource).timeout)
}

func TestNewCommandSource_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewCommandSource(nil, []string{"x"}, time.Second)
	require.Error(t, err)
	_, err = NewCommandSource(hclog.NewNullLogger(), nil, time.Second)
	require.Error(t, err)
	_, err = NewCommandSource(hclog.NewNullLogger(), []string{""}, time.Second)
	require.Error(t, err)
	_, err = NewCommandSource(hclog.NewNullLogger(), []string{"x"}, 0)
	require.Error(t, err)
}

func TestCommandSource_Read(t *testing.T) {
	t.Parallel()
	requireShell(t)

	src, err := NewCommandSource(hclog.NewNullLogger(), []string{"sh", "-c", "printf 'Total Licenses: 10\\n'"}, 5*time.Second)
	require.NoError(t, err)

	out, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Total Licenses: 10\n", out)
}

func TestCommandSource_ReadFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)

	src, err := NewCommandSource(hclog.NewNullLogger(), []string{"sh", "-c", "echo 'license server unreachable' >&2; exit 3"}, 5*time.Second)
	require.NoError(t, err)

	_, err = src.Read(context.Background())
	require.ErrorIs(t, err, errors.ErrStatusReadFailed)
	require.ErrorContains(t, err, "license server unreachable")
}

func TestCommandSource_ReadTimeout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	src, err := NewCommandSource(hclog.NewNullLogger(), []string{"sh", "-c", "sleep 5"}, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = src.Read(context.Background())
	require.ErrorIs(t, err, errors.ErrStatusReadFailed)
	require.ErrorContains(t, err, "timed out")
}

func TestCommandSource_MissingBinary(t *testing.T) {
	t.Parallel()

	src, err := NewCommandSource(hclog.NewNullLogger(), []string{filepath.Join(t.TempDir(), "missing")}, time.Second)
	require.NoError(t, err)

	_, err = src.Read(context.Background())
	require.ErrorIs(t, err, errors.ErrStatusReadFailed)
}

func TestFileSource_Read(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(path, []byte("DesignSuite 10 3 1 0\n"), 0o644))

	src, err := NewFileSource(hclog.NewNullLogger(), path)
	require.NoError(t, err)

	out, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "DesignSuite 10 3 1 0\n", out)

	require.NoError(t, os.Remove(path))
	_, err = src.Read(context.Background())
	require.ErrorIs(t, err, errors.ErrStatusReadFailed)
}

func TestNewFileSource_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewFileSource(nil, "/tmp/x")
	require.Error(t, err)
	_, err = NewFileSource(hclog.NewNullLogger(), " ")
	require.Error(t, err)
}
