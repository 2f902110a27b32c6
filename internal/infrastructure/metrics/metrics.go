package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects store activity for a single invocation
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    prometheus.Gauge
}

// New creates a metrics set backed by its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "students",
			Name:      "store_operations_total",
			Help:      "Number of store operations by operation and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "students",
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of store operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "students",
			Name:      "records",
			Help:      "Number of records in the backing file after the last operation.",
		}),
	}
	m.registry.MustRegister(m.operations, m.duration, m.records)
	return m
}

// Observe records one finished operation
func (m *Metrics) Observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetRecords updates the record count gauge
func (m *Metrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}

// Registry exposes the underlying gatherer
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
