package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiCallErrors,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluator_calls_latency_ms",
			Help:    "Evaluator call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		},
		[]string{"provider", "model", "success"},
	)

	aiCallErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluator_call_errors_total",
			Help: "Count of failed evaluator calls per provider/model.",
		},
		[]string{"provider", "model"},
	)
)

// ObserveEvaluatorCall records latency and outcome of one evaluator call.
func ObserveEvaluatorCall(provider, model string, latencyMs int, success bool) {
	aiCallsLatencyMs.WithLabelValues(provider, model, strconv.FormatBool(success)).Observe(float64(latencyMs))
	if !success {
		aiCallErrors.WithLabelValues(provider, model).Inc()
	}
}
