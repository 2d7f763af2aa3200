package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PromCollector provides Prometheus metrics collection for cognate
// operations. It registers against its own registry, exposed via
// Registry() for HTTP exposition.
type PromCollector struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	persistDuration   *prometheus.HistogramVec
	tableRows         *prometheus.GaugeVec
	registry          *prometheus.Registry
}

var _ Collector = (*PromCollector)(nil)

// NewPromCollector creates a new Prometheus metrics collector.
func NewPromCollector() *PromCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognate_operations_total",
			Help: "Total number of cognate operations by type and status",
		},
		[]string{"operation", "status"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cognate_operation_duration_seconds",
			Help:    "Duration of cognate operations by type",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognate_errors_total",
			Help: "Total number of errors by operation and error type",
		},
		[]string{"operation", "error_type"},
	)

	persistDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cognate_persist_duration_seconds",
			Help:    "Duration of snapshot persistence writes by status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"status"},
	)

	tableRows := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cognate_table_rows",
			Help: "Current row count per store table",
		},
		[]string{"table"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(operationDuration)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(persistDuration)
	registry.MustRegister(tableRows)

	return &PromCollector{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
		persistDuration:   persistDuration,
		tableRows:         tableRows,
		registry:          registry,
	}
}

// RecordOperation records the completion of an operation.
func (m *PromCollector) RecordOperation(ctx context.Context, operation string, status string, durationMs int64) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(durationMs) / 1000.0)
}

// RecordError records an error occurrence.
func (m *PromCollector) RecordError(ctx context.Context, operation string, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordPersist records one snapshot persistence write.
func (m *PromCollector) RecordPersist(ctx context.Context, status string, durationMs int64) {
	m.persistDuration.WithLabelValues(status).Observe(float64(durationMs) / 1000.0)
}

// SetTableRows sets the current row count for a table.
func (m *PromCollector) SetTableRows(ctx context.Context, table string, count int64) {
	m.tableRows.WithLabelValues(table).Set(float64(count))
}

// Registry returns the Prometheus registry for HTTP exposure.
func (m *PromCollector) Registry() *prometheus.Registry {
	return m.registry
}
