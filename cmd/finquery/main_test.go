package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finquery/internal/cli"
	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "finquery", root.Use)
	})
}

func TestRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})

	t.Run("succeeds", func(t *testing.T) {
		require.NoError(t, run(context.Background(), []string{"config", "init"}))
		_, err := os.Stat(filepath.Join(home, "config.yaml"))
		require.NoError(t, err)
	})

	t.Run("unknown command fails", func(t *testing.T) {
		require.Error(t, run(context.Background(), []string{"no-such-command"}))
	})

	t.Run("missing dataset fails", func(t *testing.T) {
		err := run(context.Background(), []string{"average", "--dataset", filepath.Join(home, "missing.json")})
		require.Error(t, err)
	})

	t.Run("interrupted repl fails", func(t *testing.T) {
		ds := filepath.Join(home, "dataset.json")
		require.NoError(t, os.WriteFile(ds, []byte(`{"clients": []}`), 0o600))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := run(ctx, []string{"repl", "--dataset", ds})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, exitCode(err))
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
