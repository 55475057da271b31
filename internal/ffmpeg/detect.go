package ffmpeg

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/themis/internal/probe"
)

// progressiveThreshold is the share of frames without repeated fields at
// or above which a source counts as progressive.
const progressiveThreshold = 0.9

// DecideInterlaced applies the idet heuristic to the repeated-field counts:
// a source is interlaced when fewer than 90% of frames repeat neither field.
// All-zero counts are not interlaced.
func DecideInterlaced(neither, top, bottom int) bool {
	total := neither + top + bottom
	if total <= 0 {
		return false
	}
	return float64(neither)/float64(total) < progressiveThreshold
}

// analysis accumulates the findings of one analysis pass from its
// diagnostic lines. idet reports cumulative counts, so the last
// "Repeated Fields" line wins; the last crop suggestion wins likewise.
type analysis struct {
	atFrame  int
	sawFrame bool
	fields   string
	crop     *probe.CropBox
}

func (a *analysis) feed(line string, progress *ProgressThrottle) {
	if frame, ok := progress.Line(line); ok {
		a.atFrame = frame
		a.sawFrame = true
		return
	}
	if _, _, _, ok := MatchRepeatedFields(line); ok {
		a.fields = line
		return
	}
	if w, h, x, y, ok := MatchCrop(line); ok {
		a.crop = &probe.CropBox{Width: w, Height: h, X: x, Y: y}
	}
}

// usable reports whether any statistic was collected.
func (a *analysis) usable() bool {
	return a.fields != "" || a.crop != nil
}

func (a *analysis) result() probe.AnalysisResult {
	var r probe.AnalysisResult
	if n, t, b, ok := MatchRepeatedFields(a.fields); ok {
		v := DecideInterlaced(n, t, b)
		r.Interlaced = &v
	}
	if a.sawFrame {
		r.NumFrames = a.atFrame
	}
	r.Crop = a.crop
	return r
}

// ParseAnalysis parses a complete analysis log into its findings.
func ParseAnalysis(lines []string) probe.AnalysisResult {
	var a analysis
	throttle := NewProgressThrottle(0, nil)
	for _, line := range lines {
		a.feed(line, throttle)
	}
	return a.result()
}

// Detector runs the analysis pass: interlace detection with idet and,
// optionally, crop detection with cropdetect.
type Detector struct {
	Options    AnalysisOptions
	OnProgress ProgressFunc
}

// Detect runs the analysis pass for input under sup and returns its
// findings. When no detection filter is needed the pass is skipped and the
// zero result is returned.
//
// Detection is best effort. A run that fails without usable statistics
// yields the zero result and an error wrapping ErrAnalysisDegraded, which
// callers log and otherwise ignore. ErrAborted is returned when sup was
// aborted.
func (d Detector) Detect(ctx context.Context, sup *Supervisor, input string, desc *probe.MediaDescriptor) (probe.AnalysisResult, error) {
	args := AnalysisArgs(input, desc, d.Options)
	if args == nil {
		return probe.AnalysisResult{}, nil
	}

	var a analysis
	throttle := NewProgressThrottle(desc.NumFrames, d.OnProgress)
	status, err := sup.Run(ctx, args, func(line string) {
		a.feed(line, throttle)
	})

	switch {
	case status.Aborted || errors.Is(err, ErrAborted):
		return probe.AnalysisResult{}, ErrAborted
	case err != nil:
		return probe.AnalysisResult{}, fmt.Errorf("%w: %v", ErrAnalysisDegraded, err)
	case !status.Success() && !a.usable():
		return probe.AnalysisResult{}, fmt.Errorf("%w: ffmpeg exited with code %d", ErrAnalysisDegraded, status.Code)
	}
	return a.result(), nil
}
