package metrics

import "context"

// NoopCollector is a no-op implementation used when metrics are disabled.
type NoopCollector struct{}

var _ Collector = (*NoopCollector)(nil)

// NewNoopCollector creates a no-op collector.
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoopCollector) RecordOperation(ctx context.Context, operation string, status string, durationMs int64) {
}

// RecordError does nothing when metrics are disabled.
func (n *NoopCollector) RecordError(ctx context.Context, operation string, errorType string) {}

// RecordPersist does nothing when metrics are disabled.
func (n *NoopCollector) RecordPersist(ctx context.Context, status string, durationMs int64) {}

// SetTableRows does nothing when metrics are disabled.
func (n *NoopCollector) SetTableRows(ctx context.Context, table string, count int64) {}
