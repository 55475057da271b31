// Package metrics declares the Prometheus metrics of the transcode engine
// and serves them over HTTP.
//
// All metrics are registered on the default registry at init using promauto:
//
//	themis_jobs_total{result}               counter   terminal job outcomes
//	themis_jobs_in_progress                 gauge     jobs between start and finish
//	themis_job_duration_seconds{result}     histogram wall time per job
//	themis_phase_duration_seconds{phase}    histogram time spent analyzing / encoding
//	themis_encode_speed_ratio               histogram effective duration / elapsed
//
// Serve exposes them on --metrics-addr at /metrics.
package metrics
