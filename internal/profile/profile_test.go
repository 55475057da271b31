package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/planner"
)

func render(opts []planner.Option) []string {
	return planner.RenderOptions(opts)
}

func TestVideoProfile_Defaults(t *testing.T) {
	s := config.DefaultSettings()
	got := render(Default{}.VideoProfile(&s))
	assert.Equal(t, []string{"-c:v", "dnxhd", "-pix_fmt", "yuv422p", "-r", "25"}, got)
}

func TestVideoProfile_OptionalOrder(t *testing.T) {
	s := config.DefaultSettings()
	s.VideoCodec = "libx264"
	s.PixelFormat = "yuv420p"
	s.FrameRate = 29.97
	s.VideoBitrate = "8M"
	s.QScale = 3
	s.GOPSize = 12
	s.Profile = "high"
	s.Level = "4.1"
	s.Preset = "slow"

	got := render(Default{}.VideoProfile(&s))
	want := []string{
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-r", "29.97",
		"-b:v", "8M", "-q:v", "3", "-g", "12",
		"-profile:v", "high", "-level", "4.1", "-preset", "slow",
	}
	assert.Equal(t, want, got)
}

func TestAudioProfile(t *testing.T) {
	s := config.DefaultSettings()
	assert.Equal(t, []string{"-ar", "48000"}, render(Default{}.AudioProfile(&s)))

	s.AudioCodec = "pcm_s16le"
	s.AudioBitrate = "1536k"
	assert.Equal(t, []string{"-c:a", "pcm_s16le", "-b:a", "1536k", "-ar", "48000"}, render(Default{}.AudioProfile(&s)))
}

func TestContainerProfile(t *testing.T) {
	tests := []struct {
		container string
		want      []string
	}{
		{"mov", []string{"-f", "mov", "-movflags", "+faststart"}},
		{"mp4", []string{"-f", "mp4", "-movflags", "+faststart"}},
		{"MKV", []string{"-f", "matroska"}},
		{"mxf", []string{"-f", "mxf"}},
		{"ts", []string{"-f", "mpegts"}},
	}
	for _, tt := range tests {
		t.Run(tt.container, func(t *testing.T) {
			s := config.DefaultSettings()
			s.Container = tt.container
			assert.Equal(t, tt.want, render(Default{}.ContainerProfile(&s)))
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "mov", Extension("MOV"))
	assert.Equal(t, "mkv", Extension(".mkv"))
}
