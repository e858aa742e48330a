// Package preflight verifies the environment the launcher depends on
// before a scheduled run has a chance to fail silently at 03:00.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	goversion "github.com/hashicorp/go-version"

	"github.com/voyago/updaterun/internal/config"
	"github.com/voyago/updaterun/internal/hostinfo"
)

// Check is one verified precondition.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the full preflight outcome.
type Report struct {
	Checks []Check            `json:"checks"`
	Host   *hostinfo.Snapshot `json:"host"`
}

// Passed reports whether every check succeeded.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// RunChecks verifies the launcher's environment: update script present,
// runtime resolvable (and recent enough when a minimum is configured), and
// log directory writable. The update program itself is never executed.
func RunChecks(ctx context.Context, cfg *config.Config) *Report {
	report := &Report{Host: hostinfo.Collect()}

	workDir, err := cfg.ResolveWorkDir()
	if err != nil {
		report.Checks = append(report.Checks, Check{
			Name: "working directory", Detail: err.Error(),
		})
		return report
	}
	report.Checks = append(report.Checks, Check{
		Name: "working directory", OK: true, Detail: workDir,
	})

	report.Checks = append(report.Checks, checkScript(workDir, cfg.Script))
	report.Checks = append(report.Checks, checkRuntime(ctx, cfg))
	report.Checks = append(report.Checks, checkLogDir(filepath.Join(workDir, cfg.LogDir)))

	return report
}

func checkScript(workDir, script string) Check {
	path := script
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, script)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Check{Name: "update script", Detail: fmt.Sprintf("%s not found", path)}
	}
	if info.IsDir() {
		return Check{Name: "update script", Detail: fmt.Sprintf("%s is a directory", path)}
	}
	return Check{Name: "update script", OK: true, Detail: path}
}

func checkRuntime(ctx context.Context, cfg *config.Config) Check {
	resolved, err := exec.LookPath(cfg.Runtime)
	if err != nil {
		return Check{Name: "runtime", Detail: fmt.Sprintf("%s not on PATH", cfg.Runtime)}
	}

	if cfg.MinRuntimeVersion == "" {
		return Check{Name: "runtime", OK: true, Detail: resolved}
	}

	min, err := goversion.NewVersion(cfg.MinRuntimeVersion)
	if err != nil {
		return Check{Name: "runtime", Detail: fmt.Sprintf("invalid min_runtime_version %q: %v", cfg.MinRuntimeVersion, err)}
	}

	out, err := exec.CommandContext(ctx, resolved, "--version").CombinedOutput()
	if err != nil {
		return Check{Name: "runtime", Detail: fmt.Sprintf("%s --version failed: %v", resolved, err)}
	}

	ver, err := ParseRuntimeVersion(string(out))
	if err != nil {
		return Check{Name: "runtime", Detail: err.Error()}
	}

	if ver.LessThan(min) {
		return Check{
			Name:   "runtime",
			Detail: fmt.Sprintf("%s is %s, need >= %s", resolved, ver, min),
		}
	}
	return Check{
		Name: "runtime", OK: true,
		Detail: fmt.Sprintf("%s (%s)", resolved, ver),
	}
}

// checkLogDir verifies the log directory can be created and written to,
// the same way the run itself will.
func checkLogDir(dir string) Check {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Check{Name: "log directory", Detail: err.Error()}
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return Check{Name: "log directory", Detail: fmt.Sprintf("%s not writable: %v", dir, err)}
	}
	f.Close()
	os.Remove(probe)

	return Check{Name: "log directory", OK: true, Detail: dir}
}

var versionRegex = regexp.MustCompile(`(\d+(?:\.\d+)+)`)

// ParseRuntimeVersion extracts a semantic version from interpreter banner
// output such as "Python 3.11.2".
func ParseRuntimeVersion(output string) (*goversion.Version, error) {
	m := versionRegex.FindString(output)
	if m == "" {
		return nil, fmt.Errorf("no version in runtime output %q", output)
	}
	return goversion.NewVersion(m)
}
