package metrics

import (
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequestDuration is the latency of dispute API routes served by gin.
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Dispute API request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"route", "method", "status_code"},
	)

	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Dispute API requests by route and status code",
		},
		[]string{"route", "method", "status_code"},
	)
)

func init() {
	Registry.MustRegister(APIRequestDuration, APIRequestsTotal)
}

// GinMiddleware records request metrics for every route except the skipped paths.
// Routes are labelled by their pattern so dispute ids do not explode cardinality.
func GinMiddleware(skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		APIRequestDuration.WithLabelValues(route, c.Request.Method, status).Observe(time.Since(start).Seconds())
		APIRequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
	}
}
