package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestWorkflowMetricsRegisterAndCount(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)

	m.IncSuccess("checkout")
	m.IncSuccess("checkout")
	m.IncRejected("checkout")
	m.IncCompensated("stock_transaction")
	m.AddImportRows("inserted", 5)
	m.AddImportRows("skipped", 2)
	m.ObserveDuration("checkout", 50*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	require.Contains(t, byName, "workflow_success_total")
	require.Equal(t, float64(2), byName["workflow_success_total"].GetMetric()[0].GetCounter().GetValue())

	require.Contains(t, byName, "workflow_compensated_total")
	require.Contains(t, byName, "import_rows_total")

	var inserted float64
	for _, metric := range byName["import_rows_total"].GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "outcome" && label.GetValue() == "inserted" {
				inserted = metric.GetCounter().GetValue()
			}
		}
	}
	require.Equal(t, float64(5), inserted)
}

func TestWorkflowMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *WorkflowMetrics
	m.IncSuccess("checkout")
	m.IncRejected("checkout")
	m.IncCompensated("checkout")
	m.AddImportRows("inserted", 1)
	m.ObserveDuration("checkout", time.Second)

	empty := NewWorkflowMetrics(nil)
	empty.IncSuccess("checkout")
}
