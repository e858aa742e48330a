// Package metrics exposes the run log as Prometheus metrics, both scraped
// (the serve surface) and pushed as a node_exporter textfile snapshot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyago/updaterun/internal/runlog"
)

// RunLogCollector derives metrics from the run log on every scrape. The
// log file is the only state the launcher keeps, so it is also the only
// source of truth for metrics.
type RunLogCollector struct {
	logPath string

	runsTotal       *prometheus.Desc
	lastStart       *prometheus.Desc
	lastDuration    *prometheus.Desc
	lastOutputLines *prometheus.Desc
}

// NewRunLogCollector creates a collector reading the run log at logPath.
func NewRunLogCollector(logPath string) *RunLogCollector {
	return &RunLogCollector{
		logPath: logPath,
		runsTotal: prometheus.NewDesc(
			"updaterun_runs_total",
			"Number of runs recorded in the run log, by completion state.",
			[]string{"state"}, nil,
		),
		lastStart: prometheus.NewDesc(
			"updaterun_last_run_start_timestamp_seconds",
			"Start time of the most recent run.",
			nil, nil,
		),
		lastDuration: prometheus.NewDesc(
			"updaterun_last_run_duration_seconds",
			"Wall time of the most recent completed run.",
			nil, nil,
		),
		lastOutputLines: prometheus.NewDesc(
			"updaterun_last_run_output_lines",
			"Lines of update program output captured in the most recent run.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RunLogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runsTotal
	ch <- c.lastStart
	ch <- c.lastDuration
	ch <- c.lastOutputLines
}

// Collect implements prometheus.Collector. A log that cannot be parsed
// simply yields zero runs; scrapes never fail because of it.
func (c *RunLogCollector) Collect(ch chan<- prometheus.Metric) {
	runs, err := runlog.ParseFile(c.logPath)
	if err != nil {
		runs = nil
	}

	var complete, incomplete float64
	for _, r := range runs {
		if r.Complete {
			complete++
		} else {
			incomplete++
		}
	}

	ch <- prometheus.MustNewConstMetric(c.runsTotal, prometheus.CounterValue, complete, "complete")
	ch <- prometheus.MustNewConstMetric(c.runsTotal, prometheus.CounterValue, incomplete, "incomplete")

	if len(runs) == 0 {
		return
	}

	last := runs[len(runs)-1]
	ch <- prometheus.MustNewConstMetric(c.lastStart, prometheus.GaugeValue,
		float64(last.StartedAt.Unix()))
	ch <- prometheus.MustNewConstMetric(c.lastOutputLines, prometheus.GaugeValue,
		float64(last.OutputLines))
	if last.Complete {
		ch <- prometheus.MustNewConstMetric(c.lastDuration, prometheus.GaugeValue,
			last.Duration().Seconds())
	}
}

// NewRegistry returns a registry with the run log collector installed.
func NewRegistry(logPath string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewRunLogCollector(logPath))
	return reg
}
