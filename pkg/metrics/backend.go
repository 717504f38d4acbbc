package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the dispute backend in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "method", "code"},
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of requests to the dispute backend",
		},
		[]string{"operation", "method", "code"},
	)
)

func init() {
	Registry.MustRegister(BackendRequestDuration, BackendRequestsTotal)
}

type operationKey struct{}

// WithOperation labels outgoing requests made with ctx.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}

type instrumentedTransport struct {
	next http.RoundTripper
}

// InstrumentTransport records backend request metrics around next.
// Failed round trips are recorded with code "error".
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next}
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	op := operationFrom(req.Context())
	BackendRequestDuration.WithLabelValues(op, req.Method, code).Observe(time.Since(start).Seconds())
	BackendRequestsTotal.WithLabelValues(op, req.Method, code).Inc()

	return resp, err
}
