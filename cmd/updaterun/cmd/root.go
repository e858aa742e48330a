package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/updaterun/internal/config"
	"github.com/voyago/updaterun/internal/logging"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string

	appConfig *config.Config
	logger    *logging.Logger
)

// rootCmd represents the base command. Running it with no arguments
// performs the update run itself, so the binary keeps working as a
// drop-in zero-argument launcher for schedulers.
var rootCmd = &cobra.Command{
	Use:   "updaterun",
	Short: "Launcher for the travel database update",
	Long: `updaterun wraps the external database update program: it moves into its
own directory, banners the run log, captures the update's combined output
into that log, and banners again when the update is done.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
	// Runtime failures (failed preflight, propagated exit status) are not
	// usage errors; keep scheduler logs free of the help text.
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.updaterun/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "diagnostics level: debug, info, warn, error")
}

// initConfig loads the effective configuration and the diagnostics logger.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	appConfig = cfg
	logger = logging.NewLogger(logging.ParseLevel(logLevel), IsJSONOutput())
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return appConfig
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
