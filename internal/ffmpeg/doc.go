// Package ffmpeg runs ffmpeg: it builds argument lists, supervises the child
// process and parses its diagnostic output.
//
// Types:
//   - Supervisor: one child in its own process group; Start, Scan, Wait and
//     an idempotent, goroutine-safe Abort (SIGTERM, then SIGKILL after a grace).
//   - ProgressThrottle: frame counter to percentage, at most once per 3 s.
//   - Detector: the analysis pass (idet, cropdetect) into a probe.AnalysisResult.
//
// Functions:
//   - EncodeArgs(input, output, plan, verbose) → []string
//   - AnalysisArgs(input, desc, opts) → []string
//   - MatchProgress, MatchRepeatedFields, MatchCrop, ClassifyFailure
//     Pre-compiled regexes over diagnostic lines (errors.go).
package ffmpeg
