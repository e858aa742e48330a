package report

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// Result is the immutable record of one launcher run. Set once at
// completion, never recomputed.
type Result struct {
	// Identity
	RunID string `json:"run_id"`
	PID   int    `json:"pid"`

	// Timing
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"-"`
	Seconds   float64       `json:"duration_seconds"`

	// Outcome. ExitCode records how the update program exited; the
	// launcher itself still completed its sequence either way.
	ExitCode int    `json:"exit_code"`
	Started  bool   `json:"started"`
	LogPath  string `json:"log_path"`
}

// New builds a result for a finished run. PID 0 and Started=false mean the
// update program never came up.
func New(pid, exitCode int, start, end time.Time, logPath string) *Result {
	return &Result{
		RunID:     uuid.NewString(),
		PID:       pid,
		ExitCode:  exitCode,
		Started:   pid != 0,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Seconds:   end.Sub(start).Seconds(),
		LogPath:   logPath,
	}
}

// LogSummary emits the one-line summary ops grep for after a scheduled run.
func (r *Result) LogSummary() {
	log.Printf("RUN %s | exit=%d | runtime=%.0fs | pid=%d | log=%s",
		r.RunID, r.ExitCode, r.Duration.Seconds(), r.PID, r.LogPath)
}
