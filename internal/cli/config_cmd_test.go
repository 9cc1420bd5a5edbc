package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finquery/internal/cli"
	"github.com/rshade/finquery/internal/config"
)

func TestConfigInit_Global(t *testing.T) {
	setupCLITest(t)
	home := os.Getenv(config.EnvHome)

	out, err := executeCmd(t, nil, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCacheCapacity, cfg.Cache.Capacity)

	_, err = executeCmd(t, nil, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force to overwrite")

	_, err = executeCmd(t, nil, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_GlobalCreatesHome(t *testing.T) {
	setupCLITest(t)
	home := filepath.Join(t.TempDir(), "nested", "finquery")
	t.Setenv(config.EnvHome, home)

	_, err := executeCmd(t, nil, "config", "init")
	require.NoError(t, err)

	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.FileExists(t, filepath.Join(home, "config.yaml"))
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()

	out, err := executeCmd(t, nil, "config", "init", "--project-dir", projectRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	_, statErr := os.Stat(filepath.Join(projectRoot, ".finquery", "config.yaml"))
	require.NoError(t, statErr)

	out, err = executeCmd(t, nil, "config", "init", "--project-dir", projectRoot, "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
}

func TestConfigInit_Direct(t *testing.T) {
	setupCLITest(t)

	cmd := cli.NewConfigInitCmd()
	var buf strings.Builder
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Configuration initialized successfully")
}

func TestConfigSetGet(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, nil, "config", "set", "cache.capacity", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Set cache.capacity = 3")

	config.ResetGlobalConfigForTest()
	out, err = executeCmd(t, nil, "config", "get", "cache.capacity")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = executeCmd(t, nil, "config", "set", "cache.capacity", "0")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = executeCmd(t, nil, "config", "set", "nope", "1")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	_, err = executeCmd(t, nil, "config", "get", "nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestConfigGet_EnvOverride(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvCacheCapacity, "9")

	out, err := executeCmd(t, nil, "config", "get", "cache.capacity")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)
}

func TestConfigList(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, nil, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cache.capacity = 5\n")
	assert.Contains(t, out, "dataset.path = DataSet.txt\n")

	out, err = executeCmd(t, nil, "config", "list", "-o", "json")
	require.NoError(t, err)
	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Len(t, values, len(config.Keys()))
	assert.Equal(t, "text", values["output.default_format"])
}

func TestConfigValidate(t *testing.T) {
	ds := setupCLITest(t)

	t.Run("valid", func(t *testing.T) {
		t.Setenv(config.EnvDataset, ds)
		config.ResetGlobalConfigForTest()

		out, err := executeCmd(t, nil, "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "(3 clients, 6 transactions)")
	})

	t.Run("bad capacity", func(t *testing.T) {
		t.Setenv(config.EnvDataset, ds)
		t.Setenv(config.EnvCacheCapacity, "-1")
		config.ResetGlobalConfigForTest()

		_, err := executeCmd(t, nil, "config", "validate")
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("missing dataset", func(t *testing.T) {
		t.Setenv(config.EnvDataset, filepath.Join(t.TempDir(), "none.json"))
		config.ResetGlobalConfigForTest()

		_, err := executeCmd(t, nil, "config", "validate")
		require.Error(t, err)
	})
}
