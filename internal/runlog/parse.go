package runlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
)

// Run is one banner-delimited block reconstructed from the run log.
// A block without an end banner (crash, still running, killed launcher)
// is reported with Complete=false.
type Run struct {
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	OutputLines int        `json:"output_lines"`
	Complete    bool       `json:"complete"`
}

// Duration returns the wall time between banners, zero for incomplete runs.
func (r Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

var bannerRegex = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\] (.+)$`)

// ParseFile reads the run log at path and returns its runs in file order.
// A missing file is not an error: no runs have happened yet.
func ParseFile(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse scans the run log into runs. Output lines that merely look like
// separators are not mistaken for banners: a banner is only recognized as
// the full three-line separator/message/separator block.
func Parse(r io.Reader) ([]Run, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var runs []Run
	i := 0
	for i < len(lines) {
		ts, ok := bannerAt(lines, i, StartMessage)
		if !ok {
			i++
			continue
		}

		run := Run{StartedAt: ts}
		i += 3

		for i < len(lines) {
			if end, ok := bannerAt(lines, i, EndMessage); ok {
				run.CompletedAt = &end
				run.Complete = true
				i += 3
				break
			}
			if _, ok := bannerAt(lines, i, StartMessage); ok {
				// Next run begins without an end banner: the
				// previous launcher never finished.
				break
			}
			run.OutputLines++
			i++
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// LastBlocks returns the raw text of the last n banner blocks, or the whole
// input when n <= 0 or fewer than n blocks exist.
func LastBlocks(r io.Reader, n int) (string, error) {
	lines, err := readLines(r)
	if err != nil {
		return "", err
	}

	if n <= 0 {
		return strings.Join(lines, "\n"), nil
	}

	var starts []int
	for i := range lines {
		if _, ok := bannerAt(lines, i, StartMessage); ok {
			starts = append(starts, i)
		}
	}

	if len(starts) <= n {
		return strings.Join(lines, "\n"), nil
	}
	return strings.Join(lines[starts[len(starts)-n]:], "\n"), nil
}

// bannerAt reports whether lines[i:i+3] form a banner carrying message,
// returning its timestamp.
func bannerAt(lines []string, i int, message string) (time.Time, bool) {
	if i+2 >= len(lines) || lines[i] != Separator || lines[i+2] != Separator {
		return time.Time{}, false
	}
	m := bannerRegex.FindStringSubmatch(lines[i+1])
	if m == nil || m[2] != message {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}
	return lines, nil
}
