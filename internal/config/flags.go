package config

// This file binds CLI flags onto Config and Settings.
// Flags are grouped into global, output, video, audio, analysis and behavior.
// Negated flags (e.g. --no-deinterlace) are applied after the config file so
// the file can set a default that a single flag turns off again.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flags ties a FlagSet to the Config it fills. Create one with NewFlags,
// bind the groups a command needs, then call Resolve after parsing.
type Flags struct {
	// ConfigPath is the --config value; empty means no config file.
	ConfigPath string

	cfg     *Config
	negated negatedFlags
}

// negatedFlags holds boolean flags that are applied after the file layer.
type negatedFlags struct {
	noDeinterlace bool
	noProgress    bool
	noColor       bool
	force         bool
}

// NewFlags returns a Flags writing into cfg.
func NewFlags(cfg *Config) *Flags {
	return &Flags{cfg: cfg}
}

// BindGlobal registers flags shared by every subcommand.
func (f *Flags) BindGlobal(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.StringVar(&f.ConfigPath, "config", "", "TOML config file (defaults < file < flags)")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe binary")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")

	color := fs.VarPF(&colorModeValue{&cfg.ColorMode}, "color", "", "Colored logs: auto | always | never")
	color.NoOptDefVal = string(ColorAlways)
	fs.BoolVar(&f.negated.noColor, "no-color", false, "Disable colored logs")
}

// BindTranscode registers the settings flags plus the batch behavior flags.
func (f *Flags) BindTranscode(fs *pflag.FlagSet) {
	f.bindOutputFlags(fs)
	f.bindVideoFlags(fs)
	f.bindAudioFlags(fs)
	f.bindAnalysisFlags(fs)
	f.bindBehaviorFlags(fs)
}

// BindPlan registers the settings flags without the batch behavior flags.
func (f *Flags) BindPlan(fs *pflag.FlagSet) {
	f.bindOutputFlags(fs)
	f.bindVideoFlags(fs)
	f.bindAudioFlags(fs)
	f.bindAnalysisFlags(fs)
}

// bindOutputFlags registers --container, -o/--output-dir, --output, --name, --friendly-name.
func (f *Flags) bindOutputFlags(fs *pflag.FlagSet) {
	s := &f.cfg.Transcode
	fs.StringVar(&s.Container, "container", s.Container, "Output container: mov | mkv | mp4 | mxf")
	fs.StringVarP(&s.OutputDir, "output-dir", "o", s.OutputDir, "Output directory")
	fs.StringVar(&s.OutputPath, "output", s.OutputPath, "Full output file path (single input only)")
	fs.StringVar(&s.BaseName, "name", s.BaseName, "Output file stem (single input only)")
	fs.StringVar(&s.FriendlyName, "friendly-name", s.FriendlyName, "Name used as status prefix")
}

// bindVideoFlags registers the target geometry, frame rate and encoder options.
func (f *Flags) bindVideoFlags(fs *pflag.FlagSet) {
	s := &f.cfg.Transcode
	fs.IntVar(&s.Width, "width", s.Width, "Target width")
	fs.IntVar(&s.Height, "height", s.Height, "Target height")
	fs.Var(&sizeValue{&s.Width, &s.Height}, "size", "Target size as WIDTHxHEIGHT")
	fs.Float64VarP(&s.FrameRate, "frame-rate", "r", s.FrameRate, "Target frame rate")
	fs.StringVar(&s.PixelFormat, "pix-fmt", s.PixelFormat, "Output pixel format")
	fs.StringVar(&s.VideoCodec, "video-codec", s.VideoCodec, "Video encoder")
	fs.StringVar(&s.VideoBitrate, "video-bitrate", s.VideoBitrate, "Video bitrate (e.g. 120M)")
	fs.IntVar(&s.QScale, "qscale", s.QScale, "Video quantizer scale (0 = unset)")
	fs.IntVar(&s.GOPSize, "gop", s.GOPSize, "GOP size (0 = unset)")
	fs.StringVar(&s.Level, "level", s.Level, "Encoder level")
	fs.StringVar(&s.Preset, "preset", s.Preset, "Encoder preset")
	fs.StringVar(&s.Profile, "profile", s.Profile, "Encoder profile")
}

// bindAudioFlags registers audio codec, bitrate, sample rate and --audio-mode.
func (f *Flags) bindAudioFlags(fs *pflag.FlagSet) {
	s := &f.cfg.Transcode
	fs.StringVar(&s.AudioCodec, "audio-codec", s.AudioCodec, "Audio encoder")
	fs.StringVar(&s.AudioBitrate, "audio-bitrate", s.AudioBitrate, "Audio bitrate (e.g. 192k)")
	fs.IntVar(&s.AudioSampleRate, "sample-rate", s.AudioSampleRate, "Audio sample rate")
	fs.Var(&audioModeValue{&s.AudioMode}, "audio-mode",
		"Audio mapping: 0 keep all, 1 first track as stereo, 2 all tracks as stereo, 3 stereo pairs in one track")
}

// bindAnalysisFlags registers deinterlace, crop detection and the trim marks.
func (f *Flags) bindAnalysisFlags(fs *pflag.FlagSet) {
	s := &f.cfg.Transcode
	fs.BoolVar(&s.Deinterlace, "deinterlace", s.Deinterlace, "Detect and deinterlace interlaced sources")
	fs.BoolVar(&f.negated.noDeinterlace, "no-deinterlace", false, "Disable interlace detection")
	fs.BoolVar(&s.CropDetect, "crop-detect", s.CropDetect, "Run crop detection during analysis")
	fs.Float64Var(&s.MarkIn, "mark-in", s.MarkIn, "Mark in point in seconds")
	fs.Float64Var(&s.MarkOut, "mark-out", s.MarkOut, "Mark out point in seconds (0 = end)")
}

// bindBehaviorFlags registers dry-run, force, progress and metrics flags.
func (f *Flags) bindBehaviorFlags(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "Plan every job but do not encode")
	fs.BoolVarP(&f.negated.force, "force", "f", false, "Overwrite existing output files")
	fs.BoolVar(&f.negated.noProgress, "no-progress", false, "Log progress lines instead of a progress bar")
	fs.IntVar(&cfg.AbortGraceSeconds, "abort-grace", cfg.AbortGraceSeconds, "Seconds before an aborted encoder is killed")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (e.g. :9090)")
}

// Resolve applies the config file and the negated flags. Flags the user set
// explicitly are re-applied after the file so they keep precedence.
func (f *Flags) Resolve(fs *pflag.FlagSet) error {
	changed := map[string]string{}
	fs.Visit(func(fl *pflag.Flag) {
		changed[fl.Name] = fl.Value.String()
	})

	if f.ConfigPath != "" {
		if err := LoadFile(f.ConfigPath, f.cfg); err != nil {
			return err
		}
		for name, value := range changed {
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("re-apply --%s: %w", name, err)
			}
		}
	}

	applyNegatedFlags(f.cfg, &f.negated)
	return nil
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noProgress -> ShowProgress=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noDeinterlace {
		cfg.Transcode.Deinterlace = false
	}
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	}
}

// pflag.Value adapters so enum and compound types can be used with fs.Var.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch ColorMode(strings.ToLower(s)) {
	case ColorAuto:
		*c.p = ColorAuto
	case ColorAlways:
		*c.p = ColorAlways
	case ColorNever:
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type audioModeValue struct{ p *AudioMode }

func (a *audioModeValue) String() string { return strconv.Itoa(int(*a.p)) }
func (a *audioModeValue) Type() string   { return "mode" }
func (a *audioModeValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(AudioModeNoChange) || n > int(AudioModeMuxPairs) {
		return fmt.Errorf("invalid audio mode %q (use 0, 1, 2 or 3)", s)
	}
	*a.p = AudioMode(n)
	return nil
}

type sizeValue struct{ w, h *int }

func (v *sizeValue) String() string { return fmt.Sprintf("%dx%d", *v.w, *v.h) }
func (v *sizeValue) Type() string   { return "WxH" }
func (v *sizeValue) Set(s string) error {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return fmt.Errorf("invalid size %q (use WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return fmt.Errorf("invalid size %q: width must be a whole number", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return fmt.Errorf("invalid size %q: height must be a whole number", s)
	}
	*v.w, *v.h = w, h
	return nil
}
