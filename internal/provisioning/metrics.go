package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-step and per-phase outcomes of a run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	steps         *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	stage         prometheus.Gauge
}

// NewMetrics creates a Metrics with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iotflow",
			Subsystem: "provisioning",
			Name:      "steps_total",
			Help:      "Provisioning steps by phase, step and outcome.",
		}, []string{"phase", "step", "outcome"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "iotflow",
			Subsystem: "provisioning",
			Name:      "phase_duration_seconds",
			Help:      "Duration of provisioning phases.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"phase", "outcome"}),
		stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "iotflow",
			Subsystem: "provisioning",
			Name:      "stage",
			Help:      "Stage reached by the last run (0=START ... 4=RULE_PROVISIONED, 5=FAILED).",
		}),
	}
	m.registry.MustRegister(m.steps, m.phaseDuration, m.stage)
	return m
}

// ObserveStep counts one step with its outcome class.
func (m *Metrics) ObserveStep(phase, step string, err error) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(phase, step, Classify(err)).Inc()
}

// ObservePhase records how long a phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase, Classify(err)).Observe(d.Seconds())
}

// SetStage records the current stage.
func (m *Metrics) SetStage(s Stage) {
	if m == nil {
		return
	}
	m.stage.Set(float64(s))
}

// Registry returns the registry holding all run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
