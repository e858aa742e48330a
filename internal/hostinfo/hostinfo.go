// Package hostinfo captures a best-effort snapshot of the machine the
// update runs on, for preflight output and the serve surface.
package hostinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot describes the host at collection time.
type Snapshot struct {
	Hostname     string `json:"hostname"`
	OS           string `json:"os"`
	Platform     string `json:"platform,omitempty"`
	Architecture string `json:"architecture"`
	CPUModel     string `json:"cpu_model,omitempty"`
	CPUThreads   int    `json:"cpu_threads"`
	RAMBytes     uint64 `json:"ram_bytes"`
	RAMHuman     string `json:"ram"`
}

// Collect gathers the snapshot. Every probe is best effort: a sensor that
// fails leaves its field zero rather than failing the snapshot.
func Collect() *Snapshot {
	snap := &Snapshot{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	if info, err := host.Info(); err == nil {
		snap.Hostname = info.Hostname
		snap.Platform = info.Platform
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		snap.CPUModel = infos[0].ModelName
	}
	if threads, err := cpu.Counts(true); err == nil {
		snap.CPUThreads = threads
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.RAMBytes = vm.Total
	}
	snap.RAMHuman = FormatRAM(snap.RAMBytes)

	return snap
}

// FormatRAM renders bytes as gigabytes for humans.
func FormatRAM(bytes uint64) string {
	return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
}
