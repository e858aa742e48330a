package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriterCreatesDirAndAppendsBanners(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	w, err := Open(dir, "update_database.log")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log directory was not created: %v", err)
	}

	start := time.Date(2025, 4, 1, 3, 0, 0, 0, time.Local)
	if err := w.StartBanner(start); err != nil {
		t.Fatalf("StartBanner failed: %v", err)
	}
	fmt.Fprintln(w.File(), "OK")
	if err := w.EndBanner(start.Add(2 * time.Minute)); err != nil {
		t.Fatalf("EndBanner failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	want := strings.Join([]string{
		Separator,
		"[2025-04-01 03:00:00] Starting database update",
		Separator,
		"OK",
		Separator,
		"[2025-04-01 03:02:00] Update completed",
		Separator,
		"",
	}, "\n")
	if string(data) != want {
		t.Errorf("log content mismatch:\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriterNeverTruncates(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2025, 4, 1, 3, 0, 0, 0, time.Local)

	for i := 0; i < 2; i++ {
		w, err := Open(dir, "update_database.log")
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := w.StartBanner(start); err != nil {
			t.Fatalf("StartBanner failed: %v", err)
		}
		if err := w.EndBanner(start.Add(time.Minute)); err != nil {
			t.Fatalf("EndBanner failed: %v", err)
		}
		w.Close()
	}

	runs, err := ParseFile(filepath.Join(dir, "update_database.log"))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after 2 launches, got %d", len(runs))
	}
	for i, run := range runs {
		if !run.Complete {
			t.Errorf("run %d should be complete", i)
		}
	}
}

func sampleLog() string {
	return strings.Join([]string{
		Separator,
		"[2025-04-01 03:00:00] Starting database update",
		Separator,
		"fetching airports",
		"updating 120 rows",
		Separator,
		"[2025-04-01 03:02:11] Update completed",
		Separator,
		Separator,
		"[2025-04-02 03:00:00] Starting database update",
		Separator,
		"Traceback (most recent call last):",
		"",
	}, "\n")
}

func TestParseCompleteAndIncompleteRuns(t *testing.T) {
	runs, err := Parse(strings.NewReader(sampleLog()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	first := runs[0]
	if !first.Complete {
		t.Error("first run should be complete")
	}
	if got := first.StartedAt.Format(TimestampLayout); got != "2025-04-01 03:00:00" {
		t.Errorf("unexpected start time %s", got)
	}
	if first.OutputLines != 2 {
		t.Errorf("expected 2 output lines, got %d", first.OutputLines)
	}
	if first.Duration() != 2*time.Minute+11*time.Second {
		t.Errorf("unexpected duration %s", first.Duration())
	}

	second := runs[1]
	if second.Complete {
		t.Error("second run should be incomplete (no end banner)")
	}
	if second.CompletedAt != nil {
		t.Error("incomplete run must have no completion time")
	}
}

func TestParseIgnoresSeparatorLookalikesInOutput(t *testing.T) {
	log := strings.Join([]string{
		Separator,
		"[2025-04-01 03:00:00] Starting database update",
		Separator,
		Separator, // program output that happens to match the separator
		"still output",
		Separator,
		"[2025-04-01 03:01:00] Update completed",
		Separator,
	}, "\n")

	runs, err := Parse(strings.NewReader(log))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if !runs[0].Complete {
		t.Error("run should be complete")
	}
	if runs[0].OutputLines != 2 {
		t.Errorf("expected 2 output lines, got %d", runs[0].OutputLines)
	}
}

func TestParseFileMissingLogMeansNoRuns(t *testing.T) {
	runs, err := ParseFile(filepath.Join(t.TempDir(), "nope.log"))
	if err != nil {
		t.Fatalf("missing log should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLastBlocks(t *testing.T) {
	tail, err := LastBlocks(strings.NewReader(sampleLog()), 1)
	if err != nil {
		t.Fatalf("LastBlocks failed: %v", err)
	}
	if strings.Contains(tail, "2025-04-01") {
		t.Error("tail should only contain the last block")
	}
	if !strings.Contains(tail, "2025-04-02") {
		t.Error("tail should contain the last run's banner")
	}

	whole, err := LastBlocks(strings.NewReader(sampleLog()), 0)
	if err != nil {
		t.Fatalf("LastBlocks failed: %v", err)
	}
	if !strings.Contains(whole, "2025-04-01") || !strings.Contains(whole, "2025-04-02") {
		t.Error("n=0 should return the whole log")
	}
}
