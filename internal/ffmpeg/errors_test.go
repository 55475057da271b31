package ffmpeg

import (
	"testing"
)

func TestMatchProgress(t *testing.T) {
	tests := []struct {
		line   string
		want   int
		wantOK bool
	}{
		{"frame=  123 fps= 25 q=2.0 size=    1024kB time=00:00:04.92 bitrate=1705.3kbits/s speed=1.0x", 123, true},
		{"frame=1 fps=0.0 q=0.0 size=N/A time=00:00:00.00", 1, true},
		{"frame=42fps=3", 42, true},
		{"[Parsed_idet_0 @ 0x55] Repeated Fields: Neither: 1 Top: 0 Bottom: 0", 0, false},
		{"  frame=  10 fps=1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := MatchProgress(tt.line)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MatchProgress(%q) = %d, %v, want %d, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatchRepeatedFields(t *testing.T) {
	line := "[Parsed_idet_0 @ 0x5581] Repeated Fields: Neither:   900 Top:    50 Bottom:    50"
	n, top, bottom, ok := MatchRepeatedFields(line)
	if !ok || n != 900 || top != 50 || bottom != 50 {
		t.Errorf("MatchRepeatedFields = %d %d %d %v, want 900 50 50 true", n, top, bottom, ok)
	}

	if _, _, _, ok := MatchRepeatedFields("[Parsed_idet_0 @ 0x5581] Single frame detection: TFF: 1 BFF: 0"); ok {
		t.Error("single frame detection line must not match")
	}
}

func TestMatchCrop(t *testing.T) {
	line := "[Parsed_cropdetect_1 @ 0x1] x1:0 x2:1919 y1:140 y2:939 w:1920 h:800 x:0 y:140 pts:1 t:0.04 crop=1920:800:0:140"
	w, h, x, y, ok := MatchCrop(line)
	if !ok || w != 1920 || h != 800 || x != 0 || y != 140 {
		t.Errorf("MatchCrop = %d %d %d %d %v", w, h, x, y, ok)
	}
	if _, _, _, _, ok := MatchCrop("frame=1 fps=1"); ok {
		t.Error("progress line must not match crop")
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"missing input", []string{"in.mov: No such file or directory"}, "input or output path does not exist"},
		{"garbage input", []string{"in.mov: Invalid data found when processing input"}, "input is not a readable media file"},
		{"missing filter", []string{"[AVFilterGraph @ 0x1] No such filter: 'rubberband'", "Error reinitializing filters!"}, "ffmpeg lacks filter rubberband"},
		{"missing encoder", []string{"Unknown encoder 'libfdk_aac'"}, "ffmpeg lacks encoder libfdk_aac"},
		{"missing encoder by codec", []string{"Encoder (codec dnxhd) not found for output stream #0:0"}, "ffmpeg lacks encoder dnxhd"},
		{"disk full", []string{"av_interleaved_write_frame(): No space left on device"}, "disk full"},
		{"nothing recognizable", []string{"Conversion failed!"}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFailure(tt.lines); got != tt.want {
				t.Errorf("ClassifyFailure() = %q, want %q", got, tt.want)
			}
		})
	}
}
