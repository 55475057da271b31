package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ProRes capture with cover art, 25 fps progressive, two audio tracks.
//   - the attached pic must not become the primary video stream
//   - nb_frames present, display aspect ratio present
const sampleProRes = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "disposition": { "default": 0, "attached_pic": 1 },
      "tags": { "comment": "Cover (front)" }
    },
    {
      "index": 1,
      "codec_name": "prores",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "sample_aspect_ratio": "1:1",
      "display_aspect_ratio": "16:9",
      "field_order": "progressive",
      "avg_frame_rate": "25/1",
      "r_frame_rate": "25/1",
      "nb_frames": "3000",
      "duration": "120.000000",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": {}
    },
    {
      "index": 2,
      "codec_name": "pcm_s24le",
      "codec_type": "audio",
      "channels": 2,
      "channel_layout": "stereo",
      "sample_rate": "48000",
      "disposition": { "default": 1 },
      "tags": { "language": "eng" }
    },
    {
      "index": 3,
      "codec_name": "pcm_s24le",
      "codec_type": "audio",
      "channels": 6,
      "channel_layout": "5.1",
      "sample_rate": "48000",
      "disposition": { "default": 0 },
      "tags": { "language": "deu" }
    }
  ],
  "format": {
    "filename": "/media/in/interview.mov",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "120.040000"
  }
}`

// DV NTSC tape transfer: anamorphic 4:3, no nb_frames, NTSC rational rate,
// no display aspect ratio (falls back to width x SAR / height).
const sampleDV = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "dvvideo",
      "codec_type": "video",
      "width": 720,
      "height": 480,
      "sample_aspect_ratio": "8:9",
      "display_aspect_ratio": "N/A",
      "field_order": "bb",
      "avg_frame_rate": "0/0",
      "r_frame_rate": "30000/1001",
      "disposition": { "default": 1, "attached_pic": 0 },
      "tags": {}
    },
    {
      "index": 1,
      "codec_name": "pcm_s16le",
      "codec_type": "audio",
      "channels": 2,
      "sample_rate": "48000",
      "disposition": { "default": 1 },
      "tags": {}
    }
  ],
  "format": {
    "filename": "/media/in/tape.dv",
    "format_name": "dv",
    "duration": "10.010000"
  }
}`

const sampleAudioOnly = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "flac",
      "codec_type": "audio",
      "channels": 2,
      "sample_rate": "44100",
      "tags": { "language": "eng" }
    }
  ],
  "format": { "filename": "/media/in/song.flac", "format_name": "flac", "duration": "200.0" }
}`

func TestParseJSON_ProRes(t *testing.T) {
	d, err := ParseJSON([]byte(sampleProRes))
	require.NoError(t, err)

	require.True(t, d.HasVideo())
	assert.Equal(t, 1, *d.VideoIndex, "attached pic must be skipped")
	assert.Equal(t, "prores", d.VideoCodec)
	assert.Equal(t, 1920, d.Width)
	assert.Equal(t, 1080, d.Height)
	assert.Equal(t, 25.0, d.FrameRate)
	assert.Equal(t, 3000, d.NumFrames)
	assert.InDelta(t, 16.0/9.0, d.AspectRatio, 1e-9)
	assert.InDelta(t, 120.04, d.Duration, 1e-9)
	assert.Equal(t, "/media/in/interview.mov", d.Path)
	assert.Equal(t, "1920x1080", d.Resolution())
	assert.InDelta(t, 120.0, d.SourceDuration(), 1e-9)

	require.Len(t, d.AudioTracks, 2)
	assert.Equal(t, AudioTrack{ID: 2, Codec: "pcm_s24le", Channels: 2, ChannelLayout: "stereo", SampleRate: 48000, Language: "eng"}, d.AudioTracks[0])
	assert.Equal(t, 3, d.AudioTracks[1].ID)
	assert.Equal(t, 6, d.AudioTracks[1].Channels)
}

func TestParseJSON_DVFallbacks(t *testing.T) {
	d, err := ParseJSON([]byte(sampleDV))
	require.NoError(t, err)

	assert.InDelta(t, 30000.0/1001.0, d.FrameRate, 1e-9, "r_frame_rate fallback")
	assert.Equal(t, 300, d.NumFrames, "round(duration x fps)")
	assert.InDelta(t, 720.0*8.0/9.0/480.0, d.AspectRatio, 1e-9, "SAR fallback")
	assert.True(t, d.FieldOrderInterlaced())
	assert.False(t, d.Interlaced(), "container field order is only a hint")
	require.Len(t, d.AudioTracks, 1)
	assert.Empty(t, d.AudioTracks[0].Language)
}

func TestParseJSON_AudioOnly(t *testing.T) {
	d, err := ParseJSON([]byte(sampleAudioOnly))
	require.NoError(t, err)
	assert.False(t, d.HasVideo())
	assert.Equal(t, "unknown", d.Resolution())
	assert.Len(t, d.AudioTracks, 1)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseJSON_EmptyStreams(t *testing.T) {
	d, err := ParseJSON([]byte(`{"streams":[],"format":{}}`))
	require.NoError(t, err)
	assert.False(t, d.HasVideo())
	assert.Empty(t, d.AudioTracks)
	assert.Zero(t, d.SourceDuration())
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in   string
		sep  string
		want float64
	}{
		{"25/1", "/", 25},
		{"30000/1001", "/", 30000.0 / 1001.0},
		{"0/0", "/", 0},
		{"", "/", 0},
		{"50", "/", 50},
		{"16:9", ":", 16.0 / 9.0},
		{"0:1", ":", 0},
		{"N/A", ":", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseRatio(tt.in, tt.sep)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("parseRatio(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterlaced_DefaultsFalse(t *testing.T) {
	var d MediaDescriptor
	assert.False(t, d.Interlaced())

	no := false
	d.IsInterlaced = &no
	assert.False(t, d.Interlaced())

	yes := true
	d.IsInterlaced = &yes
	assert.True(t, d.Interlaced())
}

func TestFieldOrderInterlaced(t *testing.T) {
	tests := []struct {
		order string
		want  bool
	}{
		{"tt", true},
		{"bb", true},
		{"TB", true},
		{" bt ", true},
		{"progressive", false},
		{"unknown", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			d := MediaDescriptor{FieldOrder: tt.order}
			if got := d.FieldOrderInterlaced(); got != tt.want {
				t.Errorf("FieldOrderInterlaced(%q) = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	d, err := ParseJSON([]byte(sampleProRes))
	require.NoError(t, err)

	yes := true
	d.Merge(AnalysisResult{
		Interlaced: &yes,
		NumFrames:  3001,
		Crop:       &CropBox{Width: 1920, Height: 800, X: 0, Y: 140},
	})

	assert.True(t, d.Analyzed())
	assert.True(t, d.Interlaced())
	assert.Equal(t, 3001, d.NumFrames)
	require.NotNil(t, d.Crop)
	assert.Equal(t, "1920:800:0:140", d.Crop.String())

	// A second merge is ignored.
	no := false
	d.Merge(AnalysisResult{Interlaced: &no, NumFrames: 10})
	assert.True(t, d.Interlaced())
	assert.Equal(t, 3001, d.NumFrames)
}

func TestMerge_KeepsProbedValuesWhenUnobserved(t *testing.T) {
	d, err := ParseJSON([]byte(sampleProRes))
	require.NoError(t, err)

	d.Merge(AnalysisResult{})
	assert.Equal(t, 3000, d.NumFrames)
	assert.Nil(t, d.IsInterlaced)
	assert.Nil(t, d.Crop)
	assert.False(t, d.Interlaced())
}
