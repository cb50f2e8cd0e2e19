// Package metrics exports per-run gauges in the Prometheus text format so a
// node_exporter textfile collector can pick up the result of each cut.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "silencecut"

// Recorder holds the gauges for one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	inputSeconds  prometheus.Gauge
	outputSeconds prometheus.Gauge
	cutSeconds    prometheus.Gauge
	cuts          prometheus.Gauge
	stageSeconds  *prometheus.GaugeVec
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// Summary is the outcome recorded after a run.
type Summary struct {
	InputSeconds  float64
	OutputSeconds float64
	CutSeconds    float64
	Cuts          int
	Succeeded     bool
	FinishedAt    time.Time
}

// NewRecorder creates a recorder with all gauges registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		inputSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "input_seconds",
			Help:      "Duration of the last input video in seconds.",
		}),
		outputSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_seconds",
			Help:      "Duration of the last cut output in seconds.",
		}),
		cutSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cut_seconds",
			Help:      "Seconds removed by the last run.",
		}),
		cuts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cuts",
			Help:      "Number of cuts applied by the last run.",
		}),
		stageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_seconds",
			Help:      "Wall time of each pipeline stage in the last run.",
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise.",
		}),
	}
	r.registry.MustRegister(
		r.inputSeconds,
		r.outputSeconds,
		r.cutSeconds,
		r.cuts,
		r.stageSeconds,
		r.lastRun,
		r.lastSuccess,
	)
	return r
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.stageSeconds.WithLabelValues(stage).Set(elapsed.Seconds())
}

// Record sets the run-level gauges.
func (r *Recorder) Record(s Summary) {
	if r == nil {
		return
	}
	r.inputSeconds.Set(s.InputSeconds)
	r.outputSeconds.Set(s.OutputSeconds)
	r.cutSeconds.Set(s.CutSeconds)
	r.cuts.Set(float64(s.Cuts))
	finished := s.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	r.lastRun.Set(float64(finished.Unix()))
	if s.Succeeded {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
}

// Gatherer exposes the recorder's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the gauges to path, creating its directory.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
