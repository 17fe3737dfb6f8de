package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Should pass requests through when the meter is nil", func(t *testing.T) {
		ResetMetricsForTesting()
		t.Cleanup(ResetMetricsForTesting)

		r := gin.New()
		r.Use(HTTPMetrics(context.Background(), nil))
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("Should record request count and duration", func(t *testing.T) {
		ResetMetricsForTesting()
		t.Cleanup(ResetMetricsForTesting)

		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		meter := provider.Meter("test")

		r := gin.New()
		r.Use(HTTPMetrics(context.Background(), meter))
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		names := make(map[string]bool)
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				names[m.Name] = true
			}
		}
		assert.True(t, names["startrelay_http_requests_total"])
		assert.True(t, names["startrelay_http_request_duration_seconds"])
	})
}
