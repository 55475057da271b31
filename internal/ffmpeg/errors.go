package ffmpeg

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrAborted is returned by Start after Abort and by Detect when the
	// analysis child was aborted.
	ErrAborted = errors.New("ffmpeg: aborted")

	// ErrAnalysisDegraded marks an analysis pass that failed without usable
	// statistics. It is non-fatal: the default result is returned with it.
	ErrAnalysisDegraded = errors.New("analysis degraded")
)

// Pre-compiled regexes for parsing ffmpeg diagnostic lines.
var (
	reProgress = regexp.MustCompile(`^frame=\s*(\d+)\s*fps`)

	reRepeatedFields = regexp.MustCompile(
		`Repeated Fields:\s*Neither:\s*(\d+)\s*Top:\s*(\d+)\s*Bottom:\s*(\d+)`)

	reCrop = regexp.MustCompile(`crop=(\d+):(\d+):(\d+):(\d+)`)
)

// Pre-compiled regexes for classifying the stderr tail of a failed encode
// into a short reason. Checked in order; the first match wins.
var failureReasons = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`No such file or directory`), "input or output path does not exist"},
	{regexp.MustCompile(`Permission denied`), "permission denied"},
	{regexp.MustCompile(`No space left on device`), "disk full"},
	{regexp.MustCompile(`Invalid data found when processing input`), "input is not a readable media file"},
	{regexp.MustCompile(`No such filter: '([^']+)'`), "ffmpeg lacks filter %s"},
	{regexp.MustCompile(`Unknown encoder '([^']+)'|Encoder \(codec ([^)]+)\) not found`), "ffmpeg lacks encoder %s"},
	{regexp.MustCompile(`(?i)Unrecognized option '([^']+)'`), "unrecognized option %s"},
	{regexp.MustCompile(`(?i)Error initializing output stream|Error while opening encoder`), "encoder rejected the output parameters"},
	{regexp.MustCompile(`(?i)Invalid argument`), "invalid argument"},
}

// MatchProgress reports whether line is a progress line and returns its
// frame counter.
func MatchProgress(line string) (frame int, ok bool) {
	m := reProgress.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MatchRepeatedFields extracts the idet repeated-field counts from line.
func MatchRepeatedFields(line string) (neither, top, bottom int, ok bool) {
	m := reRepeatedFields.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, 0, false
	}
	neither, _ = strconv.Atoi(m[1])
	top, _ = strconv.Atoi(m[2])
	bottom, _ = strconv.Atoi(m[3])
	return neither, top, bottom, true
}

// MatchCrop extracts the last "crop=W:H:X:Y" suggestion from line.
func MatchCrop(line string) (w, h, x, y int, ok bool) {
	all := reCrop.FindAllStringSubmatch(line, -1)
	if len(all) == 0 {
		return 0, 0, 0, 0, false
	}
	m := all[len(all)-1]
	w, _ = strconv.Atoi(m[1])
	h, _ = strconv.Atoi(m[2])
	x, _ = strconv.Atoi(m[3])
	y, _ = strconv.Atoi(m[4])
	return w, h, x, y, true
}

// ClassifyFailure returns a short human-readable reason for a failed run
// from its stderr lines, or "" when nothing recognizable was printed.
func ClassifyFailure(lines []string) string {
	text := strings.Join(lines, "\n")
	for _, f := range failureReasons {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if !strings.Contains(f.reason, "%s") {
			return f.reason
		}
		return strings.Replace(f.reason, "%s", firstGroup(m), 1)
	}
	return ""
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return "?"
}
