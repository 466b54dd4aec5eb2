package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		httpRequestLatencyMs,
	)
}

var httpRequestLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_latency_ms",
		Help:    "HTTP request latency distribution in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
	[]string{"method", "status"},
)

// ObserveHTTPRequest records latency and status of one handled request.
func ObserveHTTPRequest(method string, status int, latencyMs float64) {
	httpRequestLatencyMs.WithLabelValues(method, strconv.Itoa(status)).Observe(latencyMs)
}
