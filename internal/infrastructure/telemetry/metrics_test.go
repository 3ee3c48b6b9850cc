package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLifecycleMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLifecycleMetrics(reg)

	m.ObserveOperation("create", ResultSuccess)
	m.ObserveOperation("create", ResultSuccess)
	m.ObserveOperation("delete", ResultNotFound)
	m.ObserveCompensation(true)
	m.ObserveCompensation(false)
	m.ObserveOrphan()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("delete", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues(ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orphans))
}

func TestNilLifecycleMetricsIsNoop(t *testing.T) {
	var m *LifecycleMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("create", ResultSuccess)
		m.ObserveCompensation(false)
		m.ObserveOrphan()
	})
}
