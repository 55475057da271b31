// Package planner turns an analyzed MediaDescriptor and the job settings into
// an immutable Plan: the filter graph plus the ordered encoder options.
//
//   - FitGeometry: scale, pillarbox or letterbox into the target frame (geometry.go)
//   - ReclockRatio: retime small frame-rate increases (reclock.go)
//   - BuildVideoFilter: setpts, yadif and geometry chain (filter.go)
//   - BuildAudioChains: per-track rubberband, apad and atrim by audio mode (audio.go)
//   - BuildGraph: stream maps, filter stage and profile options (planner.go)
//
// Filters and options are typed values rendered once, by JoinFilters and
// RenderOptions, into ffmpeg argument syntax.
package planner
