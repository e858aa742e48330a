// Package wrapper is the launcher core: change into the launcher's
// directory, banner the run log, hand both output streams of the update
// program to that log, and banner again when it is done.
//
// The wrapper never inspects what the update program did. Failures land in
// the log as text; the end banner is written no matter what.
package wrapper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/voyago/updaterun/internal/config"
	"github.com/voyago/updaterun/internal/report"
	"github.com/voyago/updaterun/internal/runlog"
)

// Run executes one launcher sequence and returns its result.
//
// Only the launcher's own filesystem failures (working directory, log
// directory, log file) abort the sequence. A failing or missing update
// program does not: its exit code lands in the result, its output (if any)
// in the log, and the end banner is appended regardless.
func Run(ctx context.Context, cfg *config.Config) (*report.Result, error) {
	workDir, err := cfg.ResolveWorkDir()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(workDir); err != nil {
		return nil, fmt.Errorf("failed to enter launcher directory %s: %w", workDir, err)
	}

	lw, err := runlog.Open(cfg.LogDir, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	defer lw.Close()

	startedAt := time.Now()
	if err := lw.StartBanner(startedAt); err != nil {
		return nil, err
	}

	pid, exitCode := invoke(ctx, cfg, lw.File())

	completedAt := time.Now()
	if err := lw.EndBanner(completedAt); err != nil {
		return nil, err
	}

	return report.New(pid, exitCode, startedAt, completedAt, lw.Path()), nil
}

// invoke runs the update program with stdout and stderr appended to the run
// log. A start failure is recorded in the log the same way a shell
// redirection would have captured it.
func invoke(ctx context.Context, cfg *config.Config, logFile *os.File) (pid, exitCode int) {
	name, args := cfg.Command()

	cmd := exec.CommandContext(ctx, name, args...)

	// Own process group so a dying launcher does not take the update
	// down with it mid-write.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}

	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(logFile, "updaterun: failed to start %s: %v\n", name, err)
		return 0, -1
	}

	pid = cmd.Process.Pid

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return pid, exitErr.ExitCode()
		}
		return pid, -1
	}
	return pid, 0
}
