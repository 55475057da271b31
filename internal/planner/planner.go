package planner

import (
	"errors"
	"fmt"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/probe"
)

var (
	// ErrUnsupportedAudioMode is returned for audio mode 3 (stereo pairs
	// muxed into one track), which is not implemented.
	ErrUnsupportedAudioMode = errors.New("unsupported audio mode")

	// ErrNoVideoStream is returned for sources without a video stream.
	ErrNoVideoStream = errors.New("source has no video stream")

	// ErrUnusableSource is returned when the descriptor lacks the frame
	// size, frame rate or frame count the graph is computed from.
	ErrUnusableSource = errors.New("source has no usable frame size, frame rate or frame count")
)

// BuildGraph produces the immutable Plan for one encode from the analyzed
// descriptor, the job settings and the reclock ratio (0 when not reclocked).
//
// Flow:
//  1. Timing: source duration from the frame count, target duration after reclock
//  2. Video chain (setpts, deinterlace, geometry)
//  3. Audio chains per audio mode
//  4. Options: stream maps, filter stage, then video, audio and container profiles
func BuildGraph(desc *probe.MediaDescriptor, s *config.Settings, ratio float64, profiles ProfileProvider) (*Plan, error) {
	if !desc.HasVideo() {
		return nil, ErrNoVideoStream
	}
	if err := CheckSource(desc); err != nil {
		return nil, err
	}
	if ratio < 0 {
		ratio = 0
	}

	// --- 1. Timing ---
	plan := &Plan{
		Ratio:          ratio,
		SourceDuration: desc.SourceDuration(),
	}
	plan.TargetDuration = plan.SourceDuration
	if ratio > 0 {
		plan.TargetDuration = plan.SourceDuration * ratio
	}

	// --- 2. Video ---
	plan.Graph.Video = BuildVideoFilter(desc, s, ratio)

	// --- 3. Audio ---
	chains, err := BuildAudioChains(desc, s, ratio, plan.TargetDuration)
	if err != nil {
		return nil, err
	}
	plan.Graph.Audio = chains

	// --- 4. Options ---
	opts := make([]Option, 0, 16)
	opts = append(opts, Option{Flag: "map", Value: fmt.Sprintf("0:%d", *desc.VideoIndex)})
	for _, c := range chains {
		opts = append(opts, Option{Flag: "map", Value: fmt.Sprintf("0:%d", c.TrackID)})
	}

	if len(plan.Graph.Video) > 0 {
		opts = append(opts, Option{Flag: "filter:v", Value: JoinFilters(plan.Graph.Video)})
	}
	for i, c := range chains {
		opts = append(opts, Option{Flag: fmt.Sprintf("filter:a:%d", i), Value: JoinFilters(c.Filters)})
		if c.Channels > 0 {
			opts = append(opts, Option{Flag: fmt.Sprintf("ac:a:%d", i), Value: itoa(c.Channels)})
		}
	}

	if profiles != nil {
		opts = append(opts, profiles.VideoProfile(s)...)
		if len(chains) > 0 {
			opts = append(opts, profiles.AudioProfile(s)...)
		}
		opts = append(opts, profiles.ContainerProfile(s)...)
	}
	plan.Options = opts

	return plan, nil
}

// CheckSource reports ErrUnusableSource for a video descriptor whose frame
// size, frame rate or frame count is missing. Without them the target
// duration is zero and every audio track would be trimmed away.
func CheckSource(desc *probe.MediaDescriptor) error {
	switch {
	case desc.Width <= 0 || desc.Height <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrUnusableSource, desc.Width, desc.Height)
	case desc.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate %g", ErrUnusableSource, desc.FrameRate)
	case desc.NumFrames <= 0:
		return fmt.Errorf("%w: frame count %d", ErrUnusableSource, desc.NumFrames)
	}
	return nil
}
