package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/themis/internal/probe"
)

func TestDecideInterlaced(t *testing.T) {
	tests := []struct {
		name                 string
		neither, top, bottom int
		want                 bool
	}{
		{"exactly 0.9 is progressive", 900, 50, 50, false},
		{"0.8 is interlaced", 800, 100, 100, true},
		{"all neither", 1000, 0, 0, false},
		{"no frames", 0, 0, 0, false},
		{"just under threshold", 899, 51, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideInterlaced(tt.neither, tt.top, tt.bottom); got != tt.want {
				t.Errorf("DecideInterlaced(%d, %d, %d) = %v, want %v", tt.neither, tt.top, tt.bottom, got, tt.want)
			}
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Run("last repeated fields line wins", func(t *testing.T) {
		r := ParseAnalysis([]string{
			"[Parsed_idet_0 @ 0x1] Repeated Fields: Neither: 800 Top: 100 Bottom: 100",
			"frame=  500 fps=100",
			"[Parsed_idet_0 @ 0x1] Repeated Fields: Neither: 900 Top: 50 Bottom: 50",
		})
		require.NotNil(t, r.Interlaced)
		assert.False(t, *r.Interlaced)
		assert.Equal(t, 500, r.NumFrames)
	})

	t.Run("interlaced", func(t *testing.T) {
		r := ParseAnalysis([]string{"[Parsed_idet_0 @ 0x1] Repeated Fields: Neither: 800 Top: 100 Bottom: 100"})
		require.NotNil(t, r.Interlaced)
		assert.True(t, *r.Interlaced)
		assert.Zero(t, r.NumFrames, "no frame counter seen")
	})

	t.Run("no statistics keeps the default", func(t *testing.T) {
		r := ParseAnalysis([]string{"Input #0, dv, from 'tape.dv':", "frame=  10 fps=0"})
		assert.Nil(t, r.Interlaced)
		assert.Nil(t, r.Crop)

		d := &probe.MediaDescriptor{}
		d.Merge(r)
		assert.False(t, d.Interlaced())
	})

	t.Run("last crop wins", func(t *testing.T) {
		r := ParseAnalysis([]string{
			"[Parsed_cropdetect_1 @ 0x1] w:1920 h:1080 x:0 y:0 crop=1920:1080:0:0",
			"[Parsed_cropdetect_1 @ 0x1] w:1920 h:800 x:0 y:140 crop=1920:800:0:140",
		})
		require.NotNil(t, r.Crop)
		assert.Equal(t, probe.CropBox{Width: 1920, Height: 800, X: 0, Y: 140}, *r.Crop)
	})
}

func pal() *probe.MediaDescriptor {
	idx := 0
	return &probe.MediaDescriptor{VideoIndex: &idx, Width: 720, Height: 576, FrameRate: 25, NumFrames: 250}
}

func TestAnalysisArgs(t *testing.T) {
	args := AnalysisArgs("tape.mov", pal(), AnalysisOptions{Deinterlace: true, CropDetect: true})
	assert.Equal(t, []string{
		"-hide_banner", "-nostdin", "-loglevel", "info", "-stats",
		"-i", "tape.mov", "-map", "0:0", "-filter:v", "idet,cropdetect", "-f", "null", "-",
	}, args)

	film := pal()
	film.FrameRate = 23.976
	assert.Nil(t, AnalysisArgs("film.mov", film, AnalysisOptions{Deinterlace: true}), "film rates skip idet")
	assert.Equal(t, "cropdetect", AnalysisArgs("film.mov", film, AnalysisOptions{Deinterlace: true, CropDetect: true})[10])
	assert.Nil(t, AnalysisArgs("tape.mov", pal(), AnalysisOptions{}), "nothing requested")

	noVideo := pal()
	noVideo.VideoIndex = nil
	assert.Nil(t, AnalysisArgs("song.wav", noVideo, AnalysisOptions{Deinterlace: true}))
}

func TestDetector_Interlaced(t *testing.T) {
	setHelperCommand(t, "idet-interlaced")
	desc := pal()

	var progress []float64
	d := Detector{
		Options:    AnalysisOptions{Deinterlace: true},
		OnProgress: func(p float64) { progress = append(progress, p) },
	}
	r, err := d.Detect(context.Background(), newTestSupervisor(0), "tape.mov", desc)
	require.NoError(t, err)
	require.NotNil(t, r.Interlaced)
	assert.True(t, *r.Interlaced)
	assert.Equal(t, 250, r.NumFrames)
	for _, p := range progress {
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestDetector_ExactThresholdIsProgressive(t *testing.T) {
	setHelperCommand(t, "idet-progressive")
	r, err := Detector{Options: AnalysisOptions{Deinterlace: true}}.Detect(context.Background(), newTestSupervisor(0), "in.mov", pal())
	require.NoError(t, err)
	require.NotNil(t, r.Interlaced)
	assert.False(t, *r.Interlaced)
}

func TestDetector_FailureIsDegraded(t *testing.T) {
	setHelperCommand(t, "analysis-fail")
	r, err := Detector{Options: AnalysisOptions{Deinterlace: true}}.Detect(context.Background(), newTestSupervisor(0), "in.mov", pal())
	assert.True(t, errors.Is(err, ErrAnalysisDegraded), "got %v", err)
	assert.Equal(t, probe.AnalysisResult{}, r)
}

func TestDetector_FailureWithStatisticsIsUsed(t *testing.T) {
	setHelperCommand(t, "crop-then-fail")
	r, err := Detector{Options: AnalysisOptions{CropDetect: true}}.Detect(context.Background(), newTestSupervisor(0), "in.mov", pal())
	require.NoError(t, err)
	require.NotNil(t, r.Crop)
	assert.Equal(t, "720:432:0:72", r.Crop.String())
}

func TestDetector_SkippedWithoutFilters(t *testing.T) {
	argv := setHelperCommand(t, "fail")
	r, err := Detector{}.Detect(context.Background(), newTestSupervisor(0), "in.mov", pal())
	require.NoError(t, err)
	assert.Equal(t, probe.AnalysisResult{}, r)
	assert.Nil(t, *argv, "no process started")
}

func TestDetector_Aborted(t *testing.T) {
	setHelperCommand(t, "idet-interlaced")
	sup := newTestSupervisor(0)
	sup.Abort()
	_, err := Detector{Options: AnalysisOptions{Deinterlace: true}}.Detect(context.Background(), sup, "in.mov", pal())
	assert.ErrorIs(t, err, ErrAborted)
}
