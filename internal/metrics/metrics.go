// Package metrics exposes per-target step metrics in Prometheus format.
//
// The runner is a short-lived process, so nothing is served over HTTP.
// Instead the registry is written to a file that node_exporter's textfile
// collector picks up.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hdl-tools/logical/internal/model"
)

// DurationBuckets spans 100ms to 10min, the range of a lint, test or build.
var DurationBuckets = []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600}

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Metrics owns a private registry and the step collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	// RunsTotal counts executed steps by target and result.
	RunsTotal *prometheus.CounterVec

	// Duration tracks step wall time in seconds.
	Duration *prometheus.HistogramVec

	// LastExitCode records the exit code of the latest step per target.
	LastExitCode *prometheus.GaugeVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logical_task_runs_total",
			Help: "Total number of executed task steps.",
		}, []string{"target", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logical_task_duration_seconds",
			Help:    "Duration of task steps in seconds.",
			Buckets: DurationBuckets,
		}, []string{"target"}),
		LastExitCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "logical_task_last_exit_code",
			Help: "Exit code of the most recent step of each target.",
		}, []string{"target"}),
	}
	m.registry.MustRegister(m.RunsTotal, m.Duration, m.LastExitCode)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe updates the collectors for one finished step. It never fails;
// the error result lets it serve as a runner observer.
func (m *Metrics) Observe(r model.StepResult) error {
	m.RunsTotal.WithLabelValues(r.Target, resultLabel(r)).Inc()
	m.Duration.WithLabelValues(r.Target).Observe(r.Duration.Seconds())
	m.LastExitCode.WithLabelValues(r.Target).Set(float64(r.ExitCode))
	return nil
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically; missing parent directories are created.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory for %s: %w", path, err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func resultLabel(r model.StepResult) string {
	switch {
	case r.Err != nil:
		return ResultError
	case r.ExitCode != 0:
		return ResultFailure
	default:
		return ResultSuccess
	}
}
