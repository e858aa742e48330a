package cmd

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/voyago/updaterun/internal/config"
	"github.com/voyago/updaterun/internal/logging"
)

// withShellConfig installs a config whose "update program" is a shell
// one-liner, and restores the command globals and working directory after.
func withShellConfig(t *testing.T, script string) *config.Config {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	prevConfig, prevLogger := appConfig, logger
	prevPropagate, prevOutput := propagateExit, outputFormat
	t.Cleanup(func() {
		os.Chdir(wd)
		appConfig, logger = prevConfig, prevLogger
		propagateExit, outputFormat = prevPropagate, prevOutput
	})

	cfg := config.Defaults()
	cfg.WorkDir = t.TempDir()
	cfg.Runtime = "/bin/sh"
	cfg.RuntimeArgs = []string{"-c"}
	cfg.Script = script

	appConfig = cfg
	logger = logging.NewLogger(logging.ERROR, false)
	return cfg
}

func TestRunPropagatesUpdateExitCode(t *testing.T) {
	withShellConfig(t, "exit 3")
	propagateExit = true

	err := runUpdate(runCmd, nil)
	require.Error(t, err)

	var exitErr *ExitCodeError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 3, exitErr.Code)
	require.Equal(t, 3, ExitCode(err))
}

func TestRunExitsZeroByDefault(t *testing.T) {
	withShellConfig(t, "exit 3")
	propagateExit = false

	require.NoError(t, runUpdate(runCmd, nil))
}

func TestExitCodeMapsPlainErrorsToOne(t *testing.T) {
	require.Equal(t, 1, ExitCode(errors.New("config file not found")))
}

func TestRootCommandSilencesUsageOnRuntimeErrors(t *testing.T) {
	require.True(t, rootCmd.SilenceUsage)
}

func TestConfigShowWritesToCommandWriter(t *testing.T) {
	cfg := withShellConfig(t, "true")
	outputFormat = "table"

	var buf bytes.Buffer
	configShowCmd.SetOut(&buf)
	t.Cleanup(func() { configShowCmd.SetOut(nil) })

	require.NoError(t, runConfigShow(configShowCmd, nil))

	var shown config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &shown))
	require.Equal(t, cfg.Runtime, shown.Runtime)
	require.Equal(t, cfg.LogFile, shown.LogFile)
}
