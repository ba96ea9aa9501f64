package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Transitions *prometheus.CounterVec
}

// NewServerMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "comoi",
		Subsystem: "api",
		Name:      "rpc_requests_total",
		Help:      "Total number of RPC requests by operation and status code.",
	}, []string{"operation", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "comoi",
		Subsystem: "api",
		Name:      "rpc_request_duration_ms",
		Help:      "RPC request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"operation"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "comoi",
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Order status transitions applied, by source and target status.",
	}, []string{"from", "to"})

	reg.MustRegister(requests, latency, transitions)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, Transitions: transitions}
}

// ObserveTransition counts one applied status change. Safe on a nil receiver.
func (m *ServerMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
