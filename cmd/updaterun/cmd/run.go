package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voyago/updaterun/internal/metrics"
	"github.com/voyago/updaterun/internal/wrapper"
)

var propagateExit bool

// ExitCodeError carries the update program's exit status out of Execute so
// main can exit with that exact status.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("update program exited with code %d", e.Code)
}

// ExitCode maps an Execute error to the launcher's exit status: the update
// program's own status when it was asked to propagate, 1 otherwise.
func ExitCode(err error) int {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the database update once",
	Long: `Run executes one launcher sequence: enter the launcher directory, ensure
the log directory exists, banner the run log, invoke the update program with
its combined output appended to the log, and banner again.

The end banner is written even when the update program fails or cannot be
started; the launcher exits zero regardless of the update's exit code unless
--propagate-exit is set.

Example:
  updaterun run
  updaterun run --propagate-exit
  UPDATERUN_SCRIPT=refresh_flights.py updaterun run`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&propagateExit, "propagate-exit", false,
		"exit with the update program's status instead of always exiting zero")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := Config()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\n[launcher] received signal, stopping...\n")
		cancel()
	}()

	result, err := wrapper.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.TextfilePath != "" {
		if werr := metrics.WriteTextfile(cfg.TextfilePath, metrics.NewRegistry(cfg.LogPath())); werr != nil {
			logger.Warn("failed to write metrics textfile: " + werr.Error())
		}
	}

	if IsJSONOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		result.LogSummary()
	}

	if propagateExit && result.ExitCode != 0 {
		return &ExitCodeError{Code: result.ExitCode}
	}
	return nil
}
