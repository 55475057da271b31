package probe

import (
	"fmt"
	"strconv"
)

// AudioTrack is one source audio stream. ID is the absolute stream index in
// the source container.
type AudioTrack struct {
	ID            int
	Codec         string
	Channels      int
	ChannelLayout string
	SampleRate    int
	Language      string
}

// CropBox is a crop rectangle as reported by cropdetect.
type CropBox struct {
	Width  int
	Height int
	X      int
	Y      int
}

// String returns the box in cropdetect notation "W:H:X:Y".
func (c CropBox) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", c.Width, c.Height, c.X, c.Y)
}

// MediaDescriptor is everything the engine knows about a source file.
// Produced by a Prober; updated once by Merge after the analysis pass.
type MediaDescriptor struct {
	Path       string
	FormatName string

	// Primary video stream. VideoIndex is nil when the source has no video.
	VideoIndex  *int
	VideoCodec  string
	Width       int
	Height      int
	FrameRate   float64 // Frames per second.
	NumFrames   int
	AspectRatio float64 // Display aspect ratio (width / height as shown).
	FieldOrder  string  // Container hint only; see FieldOrderInterlaced.

	// Duration is the container duration in seconds.
	Duration float64

	AudioTracks []AudioTrack

	// Analysis findings. IsInterlaced is nil until detected; read it through
	// Interlaced. Crop is set only when crop detection produced a box.
	IsInterlaced *bool
	Crop         *CropBox

	analyzed bool
}

// AnalysisResult carries the findings of the analysis pass. Zero values mean
// "not observed": NumFrames 0 keeps the probed count.
type AnalysisResult struct {
	Interlaced *bool
	NumFrames  int
	Crop       *CropBox
}

// Interlaced reports the detected interlace flag, false when not detected.
func (d *MediaDescriptor) Interlaced() bool {
	return d.IsInterlaced != nil && *d.IsInterlaced
}

// HasVideo reports whether a primary video stream was found.
func (d *MediaDescriptor) HasVideo() bool {
	return d.VideoIndex != nil
}

// Analyzed reports whether Merge has been applied.
func (d *MediaDescriptor) Analyzed() bool {
	return d.analyzed
}

// Merge applies analysis findings to the descriptor. It takes effect once;
// later calls are ignored so the descriptor stays stable once encoding starts.
func (d *MediaDescriptor) Merge(r AnalysisResult) {
	if d.analyzed {
		return
	}
	d.analyzed = true
	if r.Interlaced != nil {
		v := *r.Interlaced
		d.IsInterlaced = &v
	}
	if r.NumFrames > 0 {
		d.NumFrames = r.NumFrames
	}
	if r.Crop != nil {
		c := *r.Crop
		d.Crop = &c
	}
}

// SourceDuration returns the video length derived from the frame count:
// NumFrames / FrameRate, or 0 when the frame rate is unknown.
func (d *MediaDescriptor) SourceDuration() float64 {
	if d.FrameRate <= 0 {
		return 0
	}
	return float64(d.NumFrames) / d.FrameRate
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (d *MediaDescriptor) Resolution() string {
	if !d.HasVideo() || d.Width <= 0 || d.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(d.Width) + "x" + strconv.Itoa(d.Height)
}
