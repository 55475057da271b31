package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themis_jobs_total",
			Help: "Total number of finished transcode jobs by result",
		},
		[]string{"result"}, // "completed", "failed", "aborted"
	)

	JobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "themis_jobs_in_progress",
			Help: "Number of transcode jobs currently running",
		},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "themis_job_duration_seconds",
			Help:    "Transcode job wall time in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600, 7200},
		},
		[]string{"result"},
	)
)

// Phase metrics
var (
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "themis_phase_duration_seconds",
			Help:    "Time spent in each job phase in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 300, 900, 3600},
		},
		[]string{"phase"}, // "analyzing", "encoding"
	)

	EncodeSpeedRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "themis_encode_speed_ratio",
			Help:    "Effective media duration divided by wall time for completed jobs",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)
)
