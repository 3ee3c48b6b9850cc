// Package telemetry records catalog lifecycle metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
)

// LifecycleMetrics counts product operations and asset cleanups.
type LifecycleMetrics struct {
	operations    *prometheus.CounterVec
	compensations *prometheus.CounterVec
	orphans       prometheus.Counter
}

// NewLifecycleMetrics registers the lifecycle collectors on reg.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	m := &LifecycleMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "product_operations_total",
			Help:      "Total number of product lifecycle operations.",
		}, []string{"operation", "result"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "asset_compensations_total",
			Help:      "Asset cleanups run after a failed commit.",
		}, []string{"result"}),
		orphans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "asset_orphans_total",
			Help:      "Assets left on disk because a cleanup failed.",
		}),
	}
	reg.MustRegister(m.operations, m.compensations, m.orphans)
	return m
}

// ObserveOperation counts one finished operation.
func (m *LifecycleMetrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// ObserveCompensation counts one compensation run.
func (m *LifecycleMetrics) ObserveCompensation(ok bool) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	m.compensations.WithLabelValues(result).Inc()
}

// ObserveOrphan counts one asset that could not be removed.
func (m *LifecycleMetrics) ObserveOrphan() {
	if m == nil {
		return
	}
	m.orphans.Inc()
}
