// Package runlog owns the update run log: the append-only file the launcher
// banners and the update program's combined output land in. The format is
// fixed and shared with the other tooling that greps this file:
//
//	========================================
//	[2025-04-01 03:00:00] Starting database update
//	========================================
//	<raw stdout/stderr of the update program>
//	========================================
//	[2025-04-01 03:02:11] Update completed
//	========================================
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// Separator delimits banners in the run log. 40 characters, matches
	// what log scrapers already expect.
	Separator = "========================================"

	// StartMessage and EndMessage are the literal banner texts. Do not
	// reword them: history parsing and ops grep both key on them.
	StartMessage = "Starting database update"
	EndMessage   = "Update completed"

	// TimestampLayout is the banner timestamp format.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Writer appends banners and subprocess output to the run log.
// The file is opened in append mode and never truncated.
type Writer struct {
	file *os.File
	path string
}

// Open ensures dir exists and opens dir/name for appending, creating the
// file on first run.
func Open(dir, name string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &Writer{file: file, path: path}, nil
}

// StartBanner appends the three-line start banner.
func (w *Writer) StartBanner(t time.Time) error {
	return w.banner(StartMessage, t)
}

// EndBanner appends the three-line end banner.
func (w *Writer) EndBanner(t time.Time) error {
	return w.banner(EndMessage, t)
}

func (w *Writer) banner(message string, t time.Time) error {
	_, err := fmt.Fprintf(w.file, "%s\n[%s] %s\n%s\n",
		Separator, t.Format(TimestampLayout), message, Separator)
	if err != nil {
		return fmt.Errorf("failed to write banner to %s: %w", w.path, err)
	}
	return nil
}

// File exposes the underlying handle so it can be wired straight into a
// subprocess's stdout and stderr.
func (w *Writer) File() *os.File {
	return w.file
}

// Path returns the log file path.
func (w *Writer) Path() string {
	return w.path
}

// Close closes the log file.
func (w *Writer) Close() error {
	return w.file.Close()
}
