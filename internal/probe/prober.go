package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Prober turns a media file into a MediaDescriptor.
type Prober interface {
	Probe(ctx context.Context, path string) (*MediaDescriptor, error)
}

// FFProbe is the ffprobe-backed Prober.
type FFProbe struct {
	// Bin is the ffprobe binary; "ffprobe" when empty.
	Bin string
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed descriptor.
func (p *FFProbe) Probe(ctx context.Context, path string) (*MediaDescriptor, error) {
	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	d, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaDescriptor.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaDescriptor, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildDescriptor(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index              int               `json:"index"`
	CodecName          string            `json:"codec_name"`
	CodecType          string            `json:"codec_type"`
	Width              int               `json:"width"`
	Height             int               `json:"height"`
	SampleAspectRatio  string            `json:"sample_aspect_ratio"`
	DisplayAspectRatio string            `json:"display_aspect_ratio"`
	FieldOrder         string            `json:"field_order"`
	AvgFrameRate       string            `json:"avg_frame_rate"`
	RFrameRate         string            `json:"r_frame_rate"`
	NbFrames           string            `json:"nb_frames"`
	Duration           string            `json:"duration"`
	Channels           int               `json:"channels"`
	ChannelLayout      string            `json:"channel_layout"`
	SampleRate         string            `json:"sample_rate"`
	Disposition        map[string]int    `json:"disposition"`
	Tags               map[string]string `json:"tags"`
}

// --- Conversion from wire types to domain types ---

func buildDescriptor(raw *ffprobeOutput) *MediaDescriptor {
	d := &MediaDescriptor{
		Path:       raw.Format.Filename,
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if s.Disposition["attached_pic"] == 1 || d.HasVideo() {
				continue
			}
			applyVideo(d, s)
		case "audio":
			d.AudioTracks = append(d.AudioTracks, convertAudio(s))
		}
	}
	return d
}

// applyVideo fills the primary video fields. Frame rate prefers
// avg_frame_rate and falls back to r_frame_rate; the frame count prefers
// nb_frames and falls back to duration x fps.
func applyVideo(d *MediaDescriptor, s *ffprobeStream) {
	idx := s.Index
	d.VideoIndex = &idx
	d.VideoCodec = s.CodecName
	d.Width = s.Width
	d.Height = s.Height
	d.FieldOrder = s.FieldOrder

	d.FrameRate = parseRational(s.AvgFrameRate)
	if d.FrameRate <= 0 {
		d.FrameRate = parseRational(s.RFrameRate)
	}

	if d.Duration <= 0 {
		d.Duration = parseFloat(s.Duration)
	}

	d.NumFrames = parseInt(s.NbFrames)
	if d.NumFrames <= 0 {
		duration := parseFloat(s.Duration)
		if duration <= 0 {
			duration = d.Duration
		}
		d.NumFrames = int(math.Round(duration * d.FrameRate))
	}

	d.AspectRatio = parseAspect(s.DisplayAspectRatio)
	if d.AspectRatio <= 0 && s.Height > 0 {
		sar := parseAspect(s.SampleAspectRatio)
		if sar <= 0 {
			sar = 1
		}
		d.AspectRatio = float64(s.Width) * sar / float64(s.Height)
	}
}

func convertAudio(s *ffprobeStream) AudioTrack {
	return AudioTrack{
		ID:            s.Index,
		Codec:         s.CodecName,
		Channels:      s.Channels,
		ChannelLayout: s.ChannelLayout,
		SampleRate:    parseInt(s.SampleRate),
		Language:      s.Tags["language"],
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

// parseRational parses "N/D" (or a plain number). "0/0" and malformed
// values yield 0.
func parseRational(s string) float64 {
	return parseRatio(s, "/")
}

// parseAspect parses "N:M" aspect notation. "0:1" and "N/A" yield 0.
func parseAspect(s string) float64 {
	return parseRatio(s, ":")
}

func parseRatio(s, sep string) float64 {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, sep)
	if !ok {
		return parseFloat(s)
	}
	n := parseFloat(num)
	m := parseFloat(den)
	if n <= 0 || m <= 0 {
		return 0
	}
	return n / m
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
