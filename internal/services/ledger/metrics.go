package ledger

import "github.com/shopspring/decimal"

// MetricsCollector receives ledger engine events.
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordReplay(referenceID string)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, decimal.Decimal) {}
func (n *NoopMetricsCollector) RecordReplay(string)                       {}
func (n *NoopMetricsCollector) RecordError(string, string)                {}
