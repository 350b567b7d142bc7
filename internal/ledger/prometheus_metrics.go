package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration prometheus.Histogram
	transactionAmount *prometheus.HistogramVec
	activeAccounts    prometheus.Gauge
}

// NewPrometheusMetrics creates a metrics recorder registered against the
// given registerer. Pass nil for the default registry; tests pass their
// own prometheus.NewRegistry so collectors never collide.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_milliseconds",
				Help:    "Ledger operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		transactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_transaction_amount",
				Help:    "Recorded transaction amounts in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"type"},
		),
		activeAccounts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_active_accounts",
				Help: "Current number of accounts in Active status",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	operation := tags["operation"]
	reason := tags["reason"]

	switch name {
	case "ledger.operation.success":
		m.operationsTotal.WithLabelValues(operation, "success").Inc()
	case "ledger.operation.failed":
		m.operationsTotal.WithLabelValues(operation, "failed_"+reason).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if name == "ledger.operation" {
		m.operationDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "ledger.accounts.active":
		m.activeAccounts.Set(value)
	case "ledger.transaction.amount":
		m.transactionAmount.WithLabelValues(tags["type"]).Observe(value)
	}
}
