package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/themis/internal/config"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*config.Settings)
		input string
		want  string
	}{
		{
			name:  "derived from input stem",
			input: "/media/tapes/reel 01.avi",
			want:  filepath.Join("output", "reel 01.mov"),
		},
		{
			name:  "base name wins over stem",
			edit:  func(s *config.Settings) { s.BaseName = "promo"; s.Container = "MKV" },
			input: "/media/in.mov",
			want:  filepath.Join("output", "promo.mkv"),
		},
		{
			name:  "explicit output path wins",
			edit:  func(s *config.Settings) { s.OutputPath = "/srv/out/../final.mxf"; s.BaseName = "ignored" },
			input: "/media/in.mov",
			want:  "/srv/final.mxf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			if tt.edit != nil {
				tt.edit(&s)
			}
			got, err := OutputPath(&s, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputPath_Unresolved(t *testing.T) {
	s := config.DefaultSettings()
	s.OutputDir = ""
	_, err := OutputPath(&s, "in.mov")
	assert.ErrorIs(t, err, ErrOutputPathUnresolved)

	s = config.DefaultSettings()
	_, err = OutputPath(&s, "/")
	assert.ErrorIs(t, err, ErrOutputPathUnresolved)

	s.BaseName = "a/b"
	_, err = OutputPath(&s, "in.mov")
	assert.ErrorIs(t, err, ErrOutputPathUnresolved)
}

func TestFriendlyName(t *testing.T) {
	s := config.DefaultSettings()
	assert.Equal(t, "wedding reel 2", FriendlyName(&s, "/tapes/wedding_reel.2.dv"))

	s.BaseName = "wedding"
	assert.Equal(t, "wedding", FriendlyName(&s, "/tapes/wedding_reel.2.dv"))

	s.FriendlyName = "Wedding (tape 2)"
	assert.Equal(t, "Wedding (tape 2)", FriendlyName(&s, "/tapes/wedding_reel.2.dv"))
}

func TestCollisionResolver(t *testing.T) {
	r := NewCollisionResolver()

	assert.Equal(t, "out/clip.mov", r.Resolve("a/clip.avi", "out/clip.mov"))
	assert.Equal(t, "out/clip.mov", r.Resolve("a/clip.avi", "out/clip.mov"), "same input keeps its path")
	assert.Equal(t, "out/clip - dup1.mov", r.Resolve("b/clip.avi", "out/clip.mov"))
	assert.Equal(t, "out/clip - dup2.mov", r.Resolve("c/clip.avi", "out/clip.mov"))
	assert.Equal(t, "out/clip - dup1.mov", r.Resolve("b/clip.avi", "out/clip.mov"))

	owner, ok := r.Owner("out/clip - dup2.mov")
	assert.True(t, ok)
	assert.Equal(t, "c/clip.avi", owner)

	_, ok = r.Owner("out/other.mov")
	assert.False(t, ok)
}
