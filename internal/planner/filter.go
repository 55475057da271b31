package planner

import (
	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/probe"
)

// deinterlaceFilter is yadif emitting one frame per frame and only touching
// frames flagged as interlaced.
var deinterlaceFilter = Filter{
	Name: "yadif",
	Args: []string{"mode=send_frame", "parity=auto", "deint=interlaced"},
}

// BuildVideoFilter constructs the ordered video filter chain: timestamp
// scaling when reclocked, deinterlace when requested and detected, then the
// geometry fit to the target frame. Returns nil when no filters are needed.
func BuildVideoFilter(desc *probe.MediaDescriptor, s *config.Settings, ratio float64) []Filter {
	var filters []Filter

	if ratio > 0 {
		filters = append(filters, Filter{Name: "setpts", Args: []string{formatNumber(1/ratio) + "*PTS"}})
	}

	if s.Deinterlace && desc.Interlaced() {
		filters = append(filters, deinterlaceFilter)
	}

	filters = append(filters, FitGeometry(s.Width, s.Height, desc.Width, desc.Height, desc.AspectRatio)...)
	return filters
}
