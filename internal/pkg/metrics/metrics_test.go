package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.PayrollEvent("created")
	c.PayrollEvent("created")
	c.PayrollEvent("paid")
	c.TimesheetReviewed("approved")
	c.ObserveRequest(http.MethodGet, "/api/v1/employees", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.payrollRuns.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.payrollRuns.WithLabelValues("paid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.timesheetReviews.WithLabelValues("approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/v1/employees", "200")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.PayrollEvent("created")
		c.TimesheetReviewed("rejected")
		c.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.PayrollEvent("processed")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `payroll_runs_total{event="processed"} 1`)
}
