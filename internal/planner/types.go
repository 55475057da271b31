package planner

import (
	"strings"

	"github.com/backmassage/themis/internal/config"
)

// Filter is one ffmpeg filter: a name and its positional or key=value
// arguments. It renders as "name" or "name=a:b:c".
type Filter struct {
	Name string
	Args []string
}

// String renders the filter in ffmpeg filtergraph syntax.
func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	return f.Name + "=" + strings.Join(f.Args, ":")
}

// JoinFilters renders a linear chain as a comma-joined filter string.
// Returns "" for an empty chain.
func JoinFilters(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Option is one encoder output option. Flag is given without the leading
// dash; an empty Value renders the flag alone.
type Option struct {
	Flag  string
	Value string
}

// Args renders the option as argv elements.
func (o Option) Args() []string {
	if o.Value == "" {
		return []string{"-" + o.Flag}
	}
	return []string{"-" + o.Flag, o.Value}
}

// RenderOptions flattens options into argv elements, preserving order.
func RenderOptions(opts []Option) []string {
	args := make([]string, 0, 2*len(opts))
	for _, o := range opts {
		args = append(args, o.Args()...)
	}
	return args
}

// AudioChain is the filter chain for one emitted audio track.
type AudioChain struct {
	TrackID  int      // Absolute source stream index.
	Filters  []Filter // Never empty: at least apad and atrim.
	Channels int      // Channel count override; 0 keeps the source layout.
}

// FilterGraph is the ordered video chain plus one audio chain per emitted
// track. Built fresh per job and never mutated afterwards.
type FilterGraph struct {
	Video []Filter
	Audio []AudioChain
}

// Plan is the immutable result of BuildGraph: the filter graph plus the full
// ordered output option list (stream selection, filter stage, then codec and
// container options).
type Plan struct {
	Graph   FilterGraph
	Options []Option

	// Timing decisions, kept for reporting.
	Ratio          float64 // Reclock ratio; 0 when not reclocked.
	SourceDuration float64 // NumFrames / FrameRate of the source.
	TargetDuration float64 // SourceDuration x Ratio, or SourceDuration.
}

// Reclocked reports whether the plan changes the playback speed.
func (p *Plan) Reclocked() bool { return p.Ratio > 0 }

// OutputArgs renders the option list into argv elements.
func (p *Plan) OutputArgs() []string { return RenderOptions(p.Options) }

// ProfileProvider maps settings to encoder option lists. Options are
// appended verbatim after the filter stage, video then audio then container.
type ProfileProvider interface {
	VideoProfile(s *config.Settings) []Option
	AudioProfile(s *config.Settings) []Option
	ContainerProfile(s *config.Settings) []Option
}
