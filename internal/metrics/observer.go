package metrics

import (
	"time"

	"github.com/backmassage/themis/internal/pipeline"
)

// jobObserver implements pipeline.Observer using the Prometheus metrics
// declared in this package.
type jobObserver struct{}

// NewJobObserver creates an observer that records job lifecycle metrics.
func NewJobObserver() pipeline.Observer {
	return jobObserver{}
}

func (jobObserver) JobStarted() {
	JobsInProgress.Inc()
}

func (jobObserver) PhaseFinished(phase pipeline.Phase, elapsed time.Duration) {
	PhaseDuration.WithLabelValues(phase.String()).Observe(elapsed.Seconds())
}

func (jobObserver) JobFinished(r pipeline.Result) {
	JobsInProgress.Dec()
	JobsTotal.WithLabelValues(r.Phase.String()).Inc()
	JobDuration.WithLabelValues(r.Phase.String()).Observe(r.Elapsed.Seconds())
	if r.Phase == pipeline.PhaseCompleted && r.Speed > 0 {
		EncodeSpeedRatio.Observe(r.Speed)
	}
}
