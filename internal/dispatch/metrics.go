package dispatch

import "github.com/prometheus/client_golang/prometheus"

var (
	jobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rinfobot_jobs_submitted_total",
			Help: "Number of event handling jobs accepted by the worker pool.",
		},
		[]string{"kind"},
	)

	jobsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rinfobot_jobs_dropped_total",
			Help: "Number of jobs rejected because the queue was full or the pool was stopped.",
		},
		[]string{"kind"},
	)

	jobsPanicked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rinfobot_jobs_panicked_total",
			Help: "Number of jobs that panicked and were recovered.",
		},
		[]string{"kind"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rinfobot_job_duration_seconds",
			Help:    "Time spent running a job.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	jobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rinfobot_jobs_in_flight",
			Help: "Number of jobs currently running.",
		},
	)
)

func init() {
	prometheus.MustRegister(jobsSubmitted)
	prometheus.MustRegister(jobsDropped)
	prometheus.MustRegister(jobsPanicked)
	prometheus.MustRegister(jobDuration)
	prometheus.MustRegister(jobsInFlight)
}
