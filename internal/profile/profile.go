// Package profile maps transcode settings to encoder option lists. Every
// function is pure: the same settings always yield the same options in the
// same order.
package profile

import (
	"strconv"
	"strings"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/planner"
)

// Default is the stock ProfileProvider.
type Default struct{}

var _ planner.ProfileProvider = Default{}

// VideoProfile returns codec, pixel format and frame rate, then the optional
// bitrate, quantizer, GOP, profile, level and preset options that are set.
func (Default) VideoProfile(s *config.Settings) []planner.Option {
	opts := []planner.Option{
		{Flag: "c:v", Value: s.VideoCodec},
		{Flag: "pix_fmt", Value: s.PixelFormat},
		{Flag: "r", Value: strconv.FormatFloat(s.FrameRate, 'f', -1, 64)},
	}
	if s.VideoBitrate != "" {
		opts = append(opts, planner.Option{Flag: "b:v", Value: s.VideoBitrate})
	}
	if s.QScale > 0 {
		opts = append(opts, planner.Option{Flag: "q:v", Value: strconv.Itoa(s.QScale)})
	}
	if s.GOPSize > 0 {
		opts = append(opts, planner.Option{Flag: "g", Value: strconv.Itoa(s.GOPSize)})
	}
	if s.Profile != "" {
		opts = append(opts, planner.Option{Flag: "profile:v", Value: s.Profile})
	}
	if s.Level != "" {
		opts = append(opts, planner.Option{Flag: "level", Value: s.Level})
	}
	if s.Preset != "" {
		opts = append(opts, planner.Option{Flag: "preset", Value: s.Preset})
	}
	return opts
}

// AudioProfile returns the optional codec and bitrate, then the sample rate.
func (Default) AudioProfile(s *config.Settings) []planner.Option {
	var opts []planner.Option
	if s.AudioCodec != "" {
		opts = append(opts, planner.Option{Flag: "c:a", Value: s.AudioCodec})
	}
	if s.AudioBitrate != "" {
		opts = append(opts, planner.Option{Flag: "b:a", Value: s.AudioBitrate})
	}
	return append(opts, planner.Option{Flag: "ar", Value: strconv.Itoa(s.AudioSampleRate)})
}

// containerFormats maps container names to ffmpeg muxer names where they differ.
var containerFormats = map[string]string{
	"mkv": "matroska",
	"ts":  "mpegts",
}

// ContainerProfile returns the muxer, plus +faststart for MOV and MP4 so the
// index sits at the front of the file.
func (Default) ContainerProfile(s *config.Settings) []planner.Option {
	container := strings.ToLower(s.Container)
	format, ok := containerFormats[container]
	if !ok {
		format = container
	}
	opts := []planner.Option{{Flag: "f", Value: format}}
	if container == "mov" || container == "mp4" {
		opts = append(opts, planner.Option{Flag: "movflags", Value: "+faststart"})
	}
	return opts
}

// Extension returns the output file extension for a container, without the dot.
func Extension(container string) string {
	return strings.ToLower(strings.TrimPrefix(container, "."))
}
