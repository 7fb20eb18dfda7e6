// Package monitoring tracks request metrics for the ordering service:
// a process-local metric map for the /api/v1/metrics endpoint plus
// prometheus counters exported on the metrics port.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Monitor collects and provides metrics for the ordering service
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time

	chatRequests  *prometheus.CounterVec
	chatFailures  prometheus.Counter
	cartMutations *prometheus.CounterVec
	chatLatency   prometheus.Histogram
}

// NewMonitor creates a monitoring instance and registers its collectors
// with the given registerer (use prometheus.DefaultRegisterer in main).
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gusto_chat_requests_total",
			Help: "Chat requests by classified intent.",
		}, []string{"intent"}),
		chatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gusto_chat_failures_total",
			Help: "Chat requests that hit the backend failure path.",
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gusto_cart_mutations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gusto_chat_duration_seconds",
			Help:    "End-to-end chat handling time including the completion call.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.chatRequests, m.chatFailures, m.cartMutations, m.chatLatency)
	}
	return m
}

// RecordChat records one chat request outcome.
func (m *Monitor) RecordChat(intent string, duration time.Duration, failed bool) {
	if failed {
		m.chatFailures.Inc()
	} else {
		m.chatRequests.WithLabelValues(intent).Inc()
	}
	m.chatLatency.Observe(duration.Seconds())

	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	key := "chat_" + intent
	if failed {
		key = "chat_failed"
	}
	m.metrics[key] = counterValue(m.metrics[key]) + 1
	m.metrics["chat_last_at"] = time.Now().Format(time.RFC3339)
}

// RecordCartOp records one cart mutation ("add", "remove", "clear").
func (m *Monitor) RecordCartOp(op string) {
	m.cartMutations.WithLabelValues(op).Inc()

	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	key := "cart_" + op
	m.metrics[key] = counterValue(m.metrics[key]) + 1
}

// RecordMetric records an arbitrary metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

func counterValue(v interface{}) int {
	n, _ := v.(int)
	return n
}
