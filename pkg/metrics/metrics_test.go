package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	m.ObserveTransition("PENDING", "CONFIRMED")
	m.ObserveTransition("PENDING", "CONFIRMED")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("PENDING", "CONFIRMED")))

	var nilMetrics *ServerMetrics
	assert.NotPanics(t, func() { nilMetrics.ObserveTransition("A", "B") })
}

func TestNewServerMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewServerMetrics(reg)
	assert.Panics(t, func() { NewServerMetrics(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)
	m.Requests.WithLabelValues("orders.get", "200").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `comoi_api_rpc_requests_total{operation="orders.get",status="200"} 1`)
}
