package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records outcomes for the multi-step write workflows and
// the import pipeline.
type WorkflowMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	compensated *prometheus.CounterVec
	importRows  *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_duration_seconds",
		Help:    "Duration of write workflows in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"workflow"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_success_total",
		Help: "Workflow executions that committed fully.",
	}, []string{"workflow"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_rejected_total",
		Help: "Workflow executions rejected before any write.",
	}, []string{"workflow"})
	compensated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_compensated_total",
		Help: "Workflow executions that rolled back a committed step.",
	}, []string{"workflow"})
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Spreadsheet import rows by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, success, rejected, compensated, importRows)
	return &WorkflowMetrics{
		duration:    duration,
		success:     success,
		rejected:    rejected,
		compensated: compensated,
		importRows:  importRows,
	}
}

// ObserveDuration records the duration for the named workflow.
func (m *WorkflowMetrics) ObserveDuration(workflow string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(workflow).Observe(d.Seconds())
}

// IncSuccess increments the committed counter for the named workflow.
func (m *WorkflowMetrics) IncSuccess(workflow string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(workflow).Inc()
}

// IncRejected increments the pre-write rejection counter.
func (m *WorkflowMetrics) IncRejected(workflow string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(workflow).Inc()
}

// IncCompensated increments the compensation counter.
func (m *WorkflowMetrics) IncCompensated(workflow string) {
	if m == nil || m.compensated == nil {
		return
	}
	m.compensated.WithLabelValues(workflow).Inc()
}

// AddImportRows counts import rows by outcome ("inserted" or "skipped").
func (m *WorkflowMetrics) AddImportRows(outcome string, n int) {
	if m == nil || m.importRows == nil || n <= 0 {
		return
	}
	m.importRows.WithLabelValues(outcome).Add(float64(n))
}
