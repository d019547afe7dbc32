package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics exposes counters/gauges for the live collection store.
type StoreMetrics struct {
	mutationsTotal    *prometheus.CounterVec
	activeSubscribers *prometheus.GaugeVec
	snapshotRecords   *prometheus.HistogramVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enid",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Total mutations applied per collection",
		}, []string{"collection", "action", "status"}),
		activeSubscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "enid",
			Subsystem: "store",
			Name:      "active_subscribers",
			Help:      "Currently registered snapshot subscribers",
		}, []string{"collection"}),
		snapshotRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "enid",
			Subsystem: "store",
			Name:      "snapshot_records",
			Help:      "Records per delivered snapshot",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"collection"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutationsTotal, m.activeSubscribers, m.snapshotRecords)
	return m
}

func (m *StoreMetrics) ObserveMutation(collection, action, status string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(collection, action, status).Inc()
}

func (m *StoreMetrics) SubscriberOpened(collection string) {
	if m == nil {
		return
	}
	m.activeSubscribers.WithLabelValues(collection).Inc()
}

func (m *StoreMetrics) SubscriberClosed(collection string) {
	if m == nil {
		return
	}
	m.activeSubscribers.WithLabelValues(collection).Dec()
}

func (m *StoreMetrics) ObserveSnapshot(collection string, records int) {
	if m == nil {
		return
	}
	m.snapshotRecords.WithLabelValues(collection).Observe(float64(records))
}

// AssistantMetrics exposes counters/histograms for generative assistant calls.
type AssistantMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enid",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Assistant requests by operation and outcome",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "enid",
			Subsystem: "assistant",
			Name:      "request_latency_seconds",
			Help:      "Latency of assistant requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.latency)
	return m
}

func (m *AssistantMetrics) ObserveRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

// StartRequest begins timing one assistant call. The returned func records
// the outcome and elapsed time.
func (m *AssistantMetrics) StartRequest(operation string) func(status string) {
	start := time.Now()
	return func(status string) {
		m.ObserveRequest(operation, status, time.Since(start).Seconds())
	}
}
