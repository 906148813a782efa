package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(false)

	m.ObserveAPI("GET", "/api/users", "200", "owner", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/users", "200", "owner", 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/users", "401", "anonymous", time.Millisecond)
	m.IncAuthzDenial("moveIn", "role")
	m.IncOccupancyWrite("user", "ok")
	m.IncOccupancyWrite("property", "error")
	m.IncCheckout("ok")
	m.SetInconsistencies("missing_occupant", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/users", "200", "owner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/users", "401", "anonymous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authzDenials.WithLabelValues("moveIn", "role")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.occupancyWrites.WithLabelValues("user", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.occupancyWrites.WithLabelValues("property", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.inconsistencies.WithLabelValues("missing_occupant")))
}

func TestMetricsInflight(t *testing.T) {
	m := NewMetrics(false)
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiInflight))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAPI("GET", "/", "200", "anonymous", time.Millisecond)
		m.IncAuthzDenial("x", "y")
		m.IncOccupancyWrite("user", "ok")
		m.IncCheckout("error")
		m.SetInconsistencies("k", 1)
		m.ApiInflightInc()
		m.ApiInflightDec()
	})
	assert.Nil(t, m.Registry())
}

func TestMetricsHandlerExposition(t *testing.T) {
	m := NewMetrics(false)
	m.IncCheckout("gateway_error")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `living_real_checkout_sessions_total{outcome="gateway_error"} 1`), body)
}

func TestEnabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	assert.False(t, Enabled())
	t.Setenv("METRICS_ENABLED", "yes")
	assert.True(t, Enabled())
	t.Setenv("METRICS_ENABLED", "0")
	assert.False(t, Enabled())
}
