package pipeline

import (
	"time"

	"github.com/backmassage/themis/internal/planner"
	"github.com/backmassage/themis/internal/probe"
)

// Phase is a job's position in its lifecycle:
//
//	Idle → Analyzing → Encoding → {Completed, Failed, Aborted}
//
// Failed and Aborted are also reachable from Idle and Analyzing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseEncoding
	PhaseCompleted
	PhaseFailed
	PhaseAborted
)

var phaseNames = [...]string{"idle", "analyzing", "encoding", "completed", "failed", "aborted"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Terminal reports whether p ends the job.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseAborted
}

// Result is the terminal report of one job.
type Result struct {
	JobID  string
	Input  string
	Output string
	Phase  Phase
	// Err is nil for Completed, ErrAborted (wrapped) for Aborted, and wraps
	// one of the package sentinels for Failed.
	Err error
	// Reason is the classified encoder failure, when one was recognized.
	Reason string

	Elapsed  time.Duration
	Duration float64 // Effective media duration in seconds.
	Speed    float64 // Duration / Elapsed for completed jobs.

	Descriptor *probe.MediaDescriptor
	Plan       *planner.Plan
}

// Observer receives job lifecycle events; metrics.NewJobObserver is the
// Prometheus implementation.
type Observer interface {
	JobStarted()
	PhaseFinished(phase Phase, elapsed time.Duration)
	JobFinished(r Result)
}

type nopObserver struct{}

func (nopObserver) JobStarted()                        {}
func (nopObserver) PhaseFinished(Phase, time.Duration) {}
func (nopObserver) JobFinished(Result)                 {}
