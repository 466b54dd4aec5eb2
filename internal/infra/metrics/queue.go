package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		queuePending,
		queueProcessing,
		analysisJobs,
		analysisUnits,
	)
}

var (
	queuePending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_queue_pending",
			Help: "Number of analysis jobs waiting for admission.",
		},
	)

	queueProcessing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_queue_processing",
			Help: "Number of analysis jobs currently running.",
		},
	)

	analysisJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_jobs_total",
			Help: "Count of analysis jobs by terminal status.",
		},
		[]string{"status"},
	)

	analysisUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_units_total",
			Help: "Count of processed units by outcome.",
		},
		[]string{"outcome"}, // ok | degraded | save_failed
	)
)

func SetQueueDepth(pending, processing int) {
	queuePending.Set(float64(pending))
	queueProcessing.Set(float64(processing))
}

func IncAnalysisJob(status string) { analysisJobs.WithLabelValues(status).Inc() }

func IncAnalysisUnit(outcome string) { analysisUnits.WithLabelValues(outcome).Inc() }
