package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/backmassage/themis/internal/planner"
	"github.com/backmassage/themis/internal/probe"
)

// EncodeArgs constructs the ffmpeg argument list (without the binary) for
// the encode pass. The skeleton is preamble, input, the plan's ordered
// output options, then the output path.
func EncodeArgs(input, output string, plan *planner.Plan, verbose bool) []string {
	args := make([]string, 0, 32+2*len(plan.Options))

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error. Progress lines are
	// printed by -stats at any loglevel.
	if verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}
	args = append(args, "-stats")

	// --- Input ---
	args = append(args, "-i", input)

	// --- Maps, filter stage, profiles ---
	args = append(args, plan.OutputArgs()...)

	// --- Output ---
	args = append(args, output)

	return args
}

// AnalysisOptions selects the detection filters of the analysis pass.
type AnalysisOptions struct {
	Deinterlace bool // Run idet (only for sources at 25 fps or more).
	CropDetect  bool // Run cropdetect.
}

// minIdetFrameRate is the lowest source frame rate worth checking for
// interlacing; film-rate sources are progressive.
const minIdetFrameRate = 25

// AnalysisFilters returns the detection filters the pass needs, or nil when
// there is nothing to detect and the pass can be skipped.
func AnalysisFilters(desc *probe.MediaDescriptor, opts AnalysisOptions) []planner.Filter {
	var filters []planner.Filter
	if opts.Deinterlace && desc.FrameRate >= minIdetFrameRate {
		filters = append(filters, planner.Filter{Name: "idet"})
	}
	if opts.CropDetect {
		filters = append(filters, planner.Filter{Name: "cropdetect"})
	}
	return filters
}

// AnalysisArgs constructs the discard-pass argument list (without the
// binary): the primary video stream through the detection filters into the
// null muxer. Returns nil when the pass can be skipped or the source has no
// video.
func AnalysisArgs(input string, desc *probe.MediaDescriptor, opts AnalysisOptions) []string {
	filters := AnalysisFilters(desc, opts)
	if len(filters) == 0 || !desc.HasVideo() {
		return nil
	}
	return []string{
		"-hide_banner", "-nostdin",
		"-loglevel", "info", "-stats",
		"-i", input,
		"-map", fmt.Sprintf("0:%d", *desc.VideoIndex),
		"-filter:v", planner.JoinFilters(filters),
		"-f", "null", "-",
	}
}

// CommandLine renders bin and args as one shell-like line for logs.
// Arguments containing spaces are single-quoted.
func CommandLine(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, bin)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
