package main

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/themis/internal/pipeline"
)

// barSteps is the bar resolution: tenths of a percent.
const barSteps = 1000

// progressReporter draws one progress bar per job phase on a terminal.
type progressReporter struct {
	w     io.Writer
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	phase pipeline.Phase
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w}
}

// Update moves the bar for phase to percent, starting a new bar when the
// phase changes.
func (r *progressReporter) Update(phase pipeline.Phase, percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil || phase != r.phase {
		r.closeBar()
		r.bar = r.newBar(phase)
		r.phase = phase
	}
	_ = r.bar.Set(int(percent * barSteps / 100))
}

// Finish removes the bar of the job that just ended.
func (r *progressReporter) Finish(pipeline.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeBar()
}

func (r *progressReporter) newBar(phase pipeline.Phase) *progressbar.ProgressBar {
	return progressbar.NewOptions(barSteps,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(phase.String()),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (r *progressReporter) closeBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}
