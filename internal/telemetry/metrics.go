package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// Metrics is the optional Prometheus counter set gated by the
// telemetry-enable config row: tasks by disposition, stage failures by
// stage and disposition, and error causes. It records no latency
// histogram. A nil *Metrics is a valid, inert value:
// Recorder checks for nil before touching it, so enabling telemetry never
// changes pipeline behavior, only what gets recorded.
type Metrics struct {
	tasksTotal        *prometheus.CounterVec
	dispositionsTotal *prometheus.CounterVec
	causesTotal       *prometheus.CounterVec
}

// NewMetrics builds a Metrics set and registers it against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crawlfleet",
			Name:      "tasks_total",
			Help:      "Tasks resolved by the pipeline, labeled by final disposition.",
		}, []string{"disposition"}),
		dispositionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crawlfleet",
			Name:      "stage_failures_total",
			Help:      "Stage failures, labeled by stage and disposition.",
		}, []string{"stage", "disposition"}),
		causesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crawlfleet",
			Name:      "error_causes_total",
			Help:      "Stage failures, labeled by observability error cause.",
		}, []string{"cause"}),
	}

	reg.MustRegister(m.tasksTotal, m.dispositionsTotal, m.causesTotal)
	return m
}

// ObserveTask increments the terminal-disposition counter.
func (m *Metrics) ObserveTask(d failure.Disposition) {
	m.tasksTotal.WithLabelValues(d.String()).Inc()
}

// ObserveDisposition increments the per-stage failure counter.
func (m *Metrics) ObserveDisposition(stage string, d failure.Disposition) {
	m.dispositionsTotal.WithLabelValues(stage, d.String()).Inc()
}

// ObserveCause increments the observability-cause counter.
func (m *Metrics) ObserveCause(cause ErrorCause) {
	m.causesTotal.WithLabelValues(string(cause)).Inc()
}
