package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config describes how the launcher runs the external update program and
// where its output lands.
type Config struct {
	// Runtime is the interpreter the update program runs under.
	// RuntimeArgs defaults to unbuffered mode so output reaches the run
	// log as it is produced, not at exit.
	Runtime     string   `mapstructure:"runtime" yaml:"runtime" json:"runtime"`
	RuntimeArgs []string `mapstructure:"runtime_args" yaml:"runtime_args" json:"runtime_args"`
	Script      string   `mapstructure:"script" yaml:"script" json:"script"`

	// WorkDir overrides the working directory. Empty means the directory
	// containing the launcher binary, mirroring a launcher that lives
	// next to the script it runs.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir,omitempty" json:"work_dir,omitempty"`

	LogDir  string `mapstructure:"log_dir" yaml:"log_dir" json:"log_dir"`
	LogFile string `mapstructure:"log_file" yaml:"log_file" json:"log_file"`

	// MinRuntimeVersion gates the preflight version probe. Empty skips it.
	MinRuntimeVersion string `mapstructure:"min_runtime_version" yaml:"min_runtime_version,omitempty" json:"min_runtime_version,omitempty"`

	// ListenAddr is where `updaterun serve` exposes health, run history
	// and Prometheus metrics.
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr" json:"listen_addr"`

	// TextfilePath, when set, gets a node_exporter textfile-collector
	// snapshot written after each run.
	TextfilePath string `mapstructure:"textfile_path" yaml:"textfile_path,omitempty" json:"textfile_path,omitempty"`
}

// Defaults returns the configuration the launcher ships with.
func Defaults() *Config {
	return &Config{
		Runtime:     "python3",
		RuntimeArgs: []string{"-u"},
		Script:      "update_database.py",
		LogDir:      "logs",
		LogFile:     "update_database.log",
		ListenAddr:  ":9517",
	}
}

// Load builds the effective configuration: defaults, then config file,
// then environment (UPDATERUN_* plus anything a local .env provides).
func Load(cfgFile string) (*Config, error) {
	// Best effort; a missing .env just means the environment is already set.
	_ = godotenv.Load()

	v := viper.New()

	defaults := Defaults()
	v.SetDefault("runtime", defaults.Runtime)
	v.SetDefault("runtime_args", defaults.RuntimeArgs)
	v.SetDefault("script", defaults.Script)
	v.SetDefault("work_dir", defaults.WorkDir)
	v.SetDefault("log_dir", defaults.LogDir)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("min_runtime_version", defaults.MinRuntimeVersion)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("textfile_path", defaults.TextfilePath)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".updaterun"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("UPDATERUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Command returns the argv the launcher executes.
func (c *Config) Command() (string, []string) {
	args := append([]string{}, c.RuntimeArgs...)
	args = append(args, c.Script)
	return c.Runtime, args
}

// LogPath returns the run log path relative to the working directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogDir, c.LogFile)
}

// ResolveWorkDir returns the directory the launcher should run in: the
// configured override, or the directory containing the launcher binary.
func (c *Config) ResolveWorkDir() (string, error) {
	if c.WorkDir != "" {
		return c.WorkDir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher binary: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
