// Package metrics provides metrics collection for cognate operations.
package metrics

import "context"

// Collector is the interface for metrics collection. Implementations
// include the Prometheus-backed collector and the no-op collector used
// when metrics are disabled.
type Collector interface {
	RecordOperation(ctx context.Context, operation string, status string, durationMs int64)
	RecordError(ctx context.Context, operation string, errorType string)
	RecordPersist(ctx context.Context, status string, durationMs int64)
	SetTableRows(ctx context.Context, table string, count int64)
}
