package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics provides observability for record operations.
type Metrics struct {
	// Operations by name ("create", "list", "update", "delete") and outcome
	Operations *prometheus.CounterVec

	OperationLatency *prometheus.HistogramVec

	// Record count after the last successful read or write
	Records prometheus.Gauge
}

// New registers the record metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_record_operations_total",
			Help: "Total record operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_record_operation_duration_seconds",
			Help:    "Duration of record operations including store access",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		Records: factory.NewGauge(prometheus.GaugeOpts{
			Name: "roster_records",
			Help: "Number of records seen by the last store access",
		}),
	}
}

// ObserveOperation records one operation's outcome and duration.
func (m *Metrics) ObserveOperation(operation string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetRecords sets the record count gauge.
func (m *Metrics) SetRecords(n int) {
	if m != nil {
		m.Records.Set(float64(n))
	}
}
