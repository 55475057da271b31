package ffmpeg

import (
	"bytes"
	"time"
)

// ProgressInterval is the minimum time between two progress callbacks.
const ProgressInterval = 3 * time.Second

// ProgressFunc receives a completion percentage in [0, 100].
type ProgressFunc func(percent float64)

// ProgressThrottle turns frame counters into percentages and forwards them
// at most once per interval. The interval starts when the throttle is
// created, so the first callback comes no sooner than one interval after
// the child started. Percentages never decrease.
type ProgressThrottle struct {
	total    int
	interval time.Duration
	now      func() time.Time
	fn       ProgressFunc

	last    time.Time
	percent float64
}

// NewProgressThrottle returns a throttle for a stream of totalFrames frames.
// A nil fn or a non-positive totalFrames disables callbacks.
func NewProgressThrottle(totalFrames int, fn ProgressFunc) *ProgressThrottle {
	return newProgressThrottle(totalFrames, ProgressInterval, time.Now, fn)
}

func newProgressThrottle(totalFrames int, interval time.Duration, now func() time.Time, fn ProgressFunc) *ProgressThrottle {
	return &ProgressThrottle{
		total:    totalFrames,
		interval: interval,
		now:      now,
		fn:       fn,
		last:     now(),
	}
}

// Line feeds one diagnostic line. It returns the frame counter when the line
// was a progress line.
func (p *ProgressThrottle) Line(line string) (frame int, ok bool) {
	frame, ok = MatchProgress(line)
	if ok {
		p.Frame(frame)
	}
	return frame, ok
}

// Frame records that frame has been reached and fires the callback when the
// interval has elapsed.
func (p *ProgressThrottle) Frame(frame int) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	pct := float64(frame) / float64(p.total) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < p.percent {
		pct = p.percent
	}
	p.percent = pct

	now := p.now()
	if now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	p.fn(pct)
}

// Percent returns the latest computed percentage, throttled or not.
func (p *ProgressThrottle) Percent() float64 { return p.percent }

// scanLinesWithCR is a bufio.SplitFunc that splits on \r as well as \n:
// ffmpeg rewrites its progress line in place with carriage returns.
// A run of separators is consumed as one break.
func scanLinesWithCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		for advance < len(data) && (data[advance] == '\r' || data[advance] == '\n') {
			advance++
		}
		return advance, data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
