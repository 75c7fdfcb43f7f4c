// Package metrics counts interactions and funnel outcomes on a private
// prometheus registry and flushes them to a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "booking_e2e"

// Metrics is safe for concurrent use. A nil *Metrics is a valid no-op.
type Metrics struct {
	Registry     *prometheus.Registry
	interactions *prometheus.CounterVec
	runs         *prometheus.CounterVec
	steps        *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "UI interactions by action and strategy.",
		}, []string{"action", "strategy"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "funnel_runs_total",
			Help:      "Completed funnel runs by test name and result.",
		}, []string{"test_name", "result"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each funnel state.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120},
		}, []string{"state"}),
	}
	m.Registry.MustRegister(m.interactions, m.runs, m.steps)
	return m
}

func (m *Metrics) Interaction(action, strategy string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(action, strategy).Inc()
}

func (m *Metrics) Run(testName, result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(testName, result).Inc()
}

func (m *Metrics) Step(state string, d time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(state).Observe(d.Seconds())
}

// WriteTextfile writes the registry in text exposition format. An empty
// path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
