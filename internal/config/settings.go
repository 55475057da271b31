package config

import (
	"errors"
	"fmt"
	"strings"
)

// AudioMode selects how source audio tracks map to output tracks.
type AudioMode int

const (
	AudioModeNoChange    AudioMode = 0 // Carry every track through unchanged.
	AudioModeStereo      AudioMode = 1 // First track only, downmixed to stereo.
	AudioModeMultiStereo AudioMode = 2 // Every track, each downmixed to stereo.
	AudioModeMuxPairs    AudioMode = 3 // Stereo pairs muxed into one track (unsupported).
)

// String returns a short label for logs.
func (m AudioMode) String() string {
	switch m {
	case AudioModeNoChange:
		return "no change"
	case AudioModeStereo:
		return "one stereo pair"
	case AudioModeMultiStereo:
		return "multiple stereo tracks"
	case AudioModeMuxPairs:
		return "stereo pairs in one track"
	}
	return fmt.Sprintf("audio mode %d", int(m))
}

// Settings is the TranscodeSettings of one job: every recognized option with
// its default. Optional encoder options are off when zero or empty.
type Settings struct {
	// Output location. OutputPath wins over OutputDir when both are set.
	Container  string `toml:"container"`   // Default: "mov".
	OutputDir  string `toml:"output_dir"`  // Default: "output".
	OutputPath string `toml:"output_path"` // Full output file path (optional).

	// Naming helpers.
	BaseName     string `toml:"base_name"`     // Output file stem; input stem when empty.
	FriendlyName string `toml:"friendly_name"` // Status prefix; BaseName when empty.

	// Video.
	Width        int     `toml:"width"`        // Default: 1920.
	Height       int     `toml:"height"`       // Default: 1080.
	FrameRate    float64 `toml:"frame_rate"`   // Default: 25.
	PixelFormat  string  `toml:"pixel_format"` // Default: "yuv422p".
	VideoCodec   string  `toml:"video_codec"`  // Default: "dnxhd".
	VideoBitrate string  `toml:"video_bitrate"`
	QScale       int     `toml:"qscale"`
	GOPSize      int     `toml:"gop_size"`
	Level        string  `toml:"level"`
	Preset       string  `toml:"preset"`
	Profile      string  `toml:"profile"`

	// Audio.
	AudioCodec      string    `toml:"audio_codec"`
	AudioBitrate    string    `toml:"audio_bitrate"`
	AudioSampleRate int       `toml:"audio_sample_rate"` // Default: 48000.
	AudioMode       AudioMode `toml:"audio_mode"`        // Default: 0.

	// Analysis helpers.
	Deinterlace bool `toml:"deinterlace"` // Default: true. Smart deinterlace (slower).
	CropDetect  bool `toml:"crop_detect"` // Default: false. Crop detection (slower).

	// Trimming marks in seconds; zero means unset.
	MarkIn  float64 `toml:"mark_in"`
	MarkOut float64 `toml:"mark_out"`
}

// DefaultSettings returns the settings every job starts from.
func DefaultSettings() Settings {
	return Settings{
		Container:       "mov",
		OutputDir:       "output",
		Width:           1920,
		Height:          1080,
		FrameRate:       25,
		PixelFormat:     "yuv422p",
		VideoCodec:      "dnxhd",
		AudioSampleRate: 48000,
		AudioMode:       AudioModeNoChange,
		Deinterlace:     true,
	}
}

// Validate checks that the settings describe an encodable target. Audio mode
// 3 is accepted here and rejected when the filter graph is built so the
// failure is reported as an unsupported feature rather than a config typo.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Container) == "" {
		return errors.New("container must not be empty")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d (width and height must be positive)", s.Width, s.Height)
	}
	if s.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %g (must be positive)", s.FrameRate)
	}
	if strings.TrimSpace(s.VideoCodec) == "" {
		return errors.New("video codec must not be empty")
	}
	if s.AudioSampleRate <= 0 {
		return fmt.Errorf("invalid audio sample rate %d", s.AudioSampleRate)
	}
	if s.AudioMode < AudioModeNoChange || s.AudioMode > AudioModeMuxPairs {
		return fmt.Errorf("invalid audio mode %d (use 0, 1, 2 or 3)", int(s.AudioMode))
	}
	if s.QScale < 0 || s.GOPSize < 0 {
		return errors.New("qscale and gop size must not be negative")
	}
	if s.MarkIn < 0 {
		return fmt.Errorf("invalid mark in %g (must not be negative)", s.MarkIn)
	}
	if s.MarkOut != 0 && s.MarkOut <= s.MarkIn {
		return fmt.Errorf("mark out %g must be after mark in %g", s.MarkOut, s.MarkIn)
	}
	return nil
}

// EffectiveDuration returns the length of the marked region of a source that
// is sourceDuration seconds long: (mark out, or the full duration) minus mark in.
func (s *Settings) EffectiveDuration(sourceDuration float64) float64 {
	end := sourceDuration
	if s.MarkOut > 0 {
		end = s.MarkOut
	}
	return end - s.MarkIn
}
