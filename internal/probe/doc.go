// Package probe provides ffprobe-based media inspection and the typed
// MediaDescriptor the rest of the engine works from. A single JSON call per
// file gathers container and stream metadata; the analysis pass later merges
// its findings (interlacing, exact frame count, crop box) into the same
// descriptor.
//
// Types:
//   - MediaDescriptor, AudioTrack, CropBox, AnalysisResult
//
// Functions:
//   - (*FFProbe).Probe(ctx, path) → *MediaDescriptor
//     Runs ffprobe -print_format json -show_format -show_streams.
//   - ParseJSON(data) → *MediaDescriptor
//     Conversion without a real ffprobe binary.
//   - (*MediaDescriptor).Merge(AnalysisResult)
//     Applies analysis findings once.
package probe
