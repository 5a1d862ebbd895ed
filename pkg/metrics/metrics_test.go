package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics_Registered(t *testing.T) {
	IncPaymentTransition("execute", "pending", "approved")
	c := PaymentTransition.MetricCollector.(*prometheus.CounterVec)
	require.GreaterOrEqual(t, testutil.ToFloat64(c.WithLabelValues("execute", "pending", "approved")), float64(1))

	ObserveProviderCall("capture", "success", time.Now())
	h := ProviderCall.MetricCollector.(*prometheus.HistogramVec)
	require.GreaterOrEqual(t, testutil.CollectAndCount(h), 1)
}

func TestPrometheus_MiddlewareAndEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// constructing twice must not panic on duplicate registration
	NewPrometheus(NewPrometheusOptions{})
	p := NewPrometheus(NewPrometheusOptions{ReqCntURLLabelMappingFn: func(c *gin.Context) string { return c.FullPath() }})
	p.Use(r)
	r.GET("/donations/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/donations/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `req_total{code="200",method="GET",ref="",url="/donations/:id"}`)
}

func TestComputeApproximateRequestSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("A", "bc")
	require.Equal(t, len("/x")+len("POST")+len("HTTP/1.1")+3+len("example.com"), computeApproximateRequestSize(req))
}
