// Package check provides system diagnostics (the check subcommand) and
// pre-batch dependency validation (CheckDeps) for ffmpeg, ffprobe and the
// filters the transcode engine relies on.
package check

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/backmassage/themis/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or filter is missing.
var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffprobe not found")
	ErrMissingFilter   = errors.New("ffmpeg lacks a required filter")
)

// RequiredFilters are the filters every batch may use. idet and cropdetect
// run in the analysis pass; yadif is inserted for interlaced sources.
var RequiredFilters = []string{"idet", "cropdetect", "yadif", "apad", "atrim", "setpts", "scale", "pad"}

// OptionalFilters are only used by some sources. rubberband stretches audio
// for reclocked sources; jobs that need it fail on their own when it is
// missing, so its absence is a warning.
var OptionalFilters = []string{"rubberband"}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// commandOutput runs name with args and returns its stdout. Tests replace it.
var commandOutput = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// lookPath resolves a tool path. Tests replace it.
var lookPath = exec.LookPath

// RunCheck runs the interactive check flow: prints the ffmpeg and ffprobe
// versions and the availability of every known filter. Returns false if
// anything CheckDeps would reject is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegPath)
	ok = checkTool(log, "ffprobe", cfg.FFprobePath) && ok
	if !ok {
		return false
	}

	log.Info("Filters:")
	missing, optional, err := missingFilters(cfg.FFmpegPath)
	if err != nil {
		log.Warn("Could not list filters: %v", err)
		return false
	}
	for _, name := range RequiredFilters {
		if slices.Contains(missing, name) {
			log.Error("  %s: missing", name)
		} else {
			log.Success("  %s", name)
		}
	}
	for _, name := range OptionalFilters {
		if slices.Contains(optional, name) {
			log.Warn("  %s: missing (needed to reclock)", name)
		} else {
			log.Success("  %s", name)
		}
	}
	return len(missing) == 0
}

// checkTool verifies path resolves and logs the first line of -version.
func checkTool(log Logger, label, path string) bool {
	resolved, err := lookPath(path)
	if err != nil {
		log.Error("%s not found (%s)", label, path)
		return false
	}
	out, err := commandOutput(resolved, "-version")
	if err != nil {
		log.Warn("%s found but -version failed: %v", label, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", label, firstLine)
	return true
}

// CheckDeps is the pre-batch validation: it verifies that ffmpeg and ffprobe
// resolve and that ffmpeg was built with every required filter. Returns a
// sentinel error (wrapped with detail) on failure. Missing optional filters
// are logged as warnings.
func CheckDeps(cfg *config.Config, log Logger) error {
	if _, err := lookPath(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, cfg.FFmpegPath)
	}
	if _, err := lookPath(cfg.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, cfg.FFprobePath)
	}
	missing, optional, err := missingFilters(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("list ffmpeg filters: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFilter, strings.Join(missing, ", "))
	}
	for _, name := range optional {
		log.Warn("ffmpeg lacks the %s filter; sources that need reclocking will fail", name)
	}
	return nil
}

// missingFilters returns the RequiredFilters and OptionalFilters ffmpeg does
// not list.
func missingFilters(ffmpegPath string) (required, optional []string, err error) {
	out, err := commandOutput(ffmpegPath, "-hide_banner", "-filters")
	if err != nil {
		return nil, nil, err
	}
	have := ParseFilters(string(out))
	for _, name := range RequiredFilters {
		if !have[name] {
			required = append(required, name)
		}
	}
	for _, name := range OptionalFilters {
		if !have[name] {
			optional = append(optional, name)
		}
	}
	return required, optional, nil
}

// ParseFilters extracts filter names from `ffmpeg -filters` output. Filter
// rows are " <flags> <name> <in>-><out> <description>"; legend lines have no
// "->" pad column and are skipped.
func ParseFilters(out string) map[string]bool {
	names := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 3 && strings.Contains(fields[2], "->") {
			names[fields[1]] = true
		}
	}
	return names
}
