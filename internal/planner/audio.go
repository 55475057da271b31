package planner

import (
	"fmt"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/probe"
)

// stereoChannels is the downmix target of audio modes 1 and 2.
const stereoChannels = 2

// BuildAudioChains produces one chain per emitted audio track.
//
//   - Mode 0 → every track, source layout kept.
//   - Mode 1 → first track only, downmixed to stereo.
//   - Mode 2 → every track, each downmixed to stereo.
//   - Mode 3 → ErrUnsupportedAudioMode.
//
// Every chain time-stretches with rubberband when reclocked, then pads and
// trims so the audio ends exactly at targetDuration.
func BuildAudioChains(desc *probe.MediaDescriptor, s *config.Settings, ratio, targetDuration float64) ([]AudioChain, error) {
	var channels int
	switch s.AudioMode {
	case config.AudioModeNoChange:
	case config.AudioModeStereo, config.AudioModeMultiStereo:
		channels = stereoChannels
	case config.AudioModeMuxPairs:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAudioMode, s.AudioMode)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAudioMode, int(s.AudioMode))
	}

	chains := make([]AudioChain, 0, len(desc.AudioTracks))
	for _, track := range desc.AudioTracks {
		chains = append(chains, AudioChain{
			TrackID:  track.ID,
			Filters:  audioFilters(ratio, targetDuration),
			Channels: channels,
		})
		if s.AudioMode == config.AudioModeStereo {
			break
		}
	}
	return chains, nil
}

// audioFilters returns rubberband (when reclocked), apad and atrim.
func audioFilters(ratio, targetDuration float64) []Filter {
	filters := make([]Filter, 0, 3)
	if ratio > 0 {
		filters = append(filters, Filter{Name: "rubberband", Args: []string{"tempo=" + formatNumber(ratio)}})
	}
	filters = append(filters,
		Filter{Name: "apad"},
		Filter{Name: "atrim", Args: []string{"duration=" + formatNumber(targetDuration)}},
	)
	return filters
}
