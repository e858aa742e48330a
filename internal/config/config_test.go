package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "python3", cfg.Runtime)
	assert.Equal(t, []string{"-u"}, cfg.RuntimeArgs, "update output must be unbuffered")
	assert.Equal(t, "update_database.py", cfg.Script)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "update_database.log", cfg.LogFile)
	assert.Empty(t, cfg.WorkDir)
}

func TestCommandComposition(t *testing.T) {
	name, args := Defaults().Command()
	assert.Equal(t, "python3", name)
	assert.Equal(t, []string{"-u", "update_database.py"}, args)
}

func TestLogPath(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, filepath.Join("logs", "update_database.log"), cfg.LogPath())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "runtime: python3.12\nlog_dir: var/log\nmin_runtime_version: \"3.10\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "python3.12", cfg.Runtime)
	assert.Equal(t, "var/log", cfg.LogDir)
	assert.Equal(t, "3.10", cfg.MinRuntimeVersion)
	// Untouched keys keep their defaults.
	assert.Equal(t, "update_database.py", cfg.Script)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("UPDATERUN_LOG_DIR", "envlogs")
	t.Setenv("UPDATERUN_SCRIPT", "refresh_flights.py")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "envlogs", cfg.LogDir)
	assert.Equal(t, "refresh_flights.py", cfg.Script)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveWorkDirOverride(t *testing.T) {
	cfg := Defaults()
	cfg.WorkDir = "/opt/travel-data"

	dir, err := cfg.ResolveWorkDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/travel-data", dir)
}
