// Package config holds runtime configuration: application defaults, the
// per-job transcode settings, TOML file loading, CLI flag binding and
// validation. Layering is defaults -> config file -> CLI flags.
package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds application-level settings. The per-job encode parameters
// live in Transcode and are copied into every job so a job never observes
// later mutation.
type Config struct {
	// External tools.
	FFmpegPath  string `toml:"ffmpeg_path"`  // Default: "ffmpeg".
	FFprobePath string `toml:"ffprobe_path"` // Default: "ffprobe".

	// AbortGraceSeconds is how long an aborted encoder gets to exit after
	// SIGTERM before the process group is killed. Default: 10.
	AbortGraceSeconds int `toml:"abort_grace_seconds"`

	// Behavior flags.
	DryRun       bool `toml:"dry_run"`
	SkipExisting bool `toml:"skip_existing"` // Default: true. Cleared by --force.

	// Display and logging.
	Verbose      bool      `toml:"verbose"`
	ShowProgress bool      `toml:"show_progress"` // Default: true. Progress bar on a TTY.
	ColorMode    ColorMode `toml:"color"`         // Default: "auto".
	LogFile      string    `toml:"log_file"`      // Optional log file path.

	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `toml:"metrics_addr"`

	// Transcode is the default TranscodeSettings for every job.
	Transcode Settings `toml:"transcode"`
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before the config file and CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		AbortGraceSeconds: 10,
		SkipExisting:      true,
		ShowProgress:      true,
		ColorMode:         ColorAuto,
		Transcode:         DefaultSettings(),
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and tool paths, then validates the embedded
// transcode settings.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffprobe path must not be empty")
	}
	if c.AbortGraceSeconds < 0 {
		return errors.New("abort grace must not be negative")
	}

	c.Transcode.OutputDir = NormalizeDirArg(c.Transcode.OutputDir)
	return c.Transcode.Validate()
}

// AbortGrace returns AbortGraceSeconds as a duration.
func (c *Config) AbortGrace() time.Duration {
	return time.Duration(c.AbortGraceSeconds) * time.Second
}

// ValidatePaths ensures an output directory is not inside (or equal to) an
// input directory that is being scanned, so a batch never rediscovers its own
// outputs. Both arguments must be absolute, symlink-resolved paths.
func ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
