package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/logging"
	"github.com/backmassage/themis/internal/probe"
)

// batchFixture lays out two source directories whose files share a stem.
func batchFixture(t *testing.T, mode string) (cfg config.Config, inputs []string, prober *fakeProber) {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("THEMIS_HELPER_MODE", mode)

	prober = &fakeProber{descs: map[string]*probe.MediaDescriptor{}}
	for _, dir := range []string{"reel1", "reel2"} {
		d := filepath.Join(t.TempDir(), dir)
		require.NoError(t, os.MkdirAll(d, 0o755))
		p := filepath.Join(d, "clip.dv")
		require.NoError(t, os.WriteFile(p, make([]byte, 4096), 0o644))
		prober.descs[p] = palSource(p)
		inputs = append(inputs, p)
	}

	cfg = config.DefaultConfig()
	cfg.FFmpegPath = os.Args[0]
	cfg.Transcode.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg, inputs, prober
}

func batchOptions(cfg *config.Config, prober probe.Prober, out io.Writer) Options {
	opts := OptionsFromConfig(cfg, logging.New(out, out, true))
	opts.Prober = prober
	return opts
}

func TestRun_ResolvesCollisions(t *testing.T) {
	cfg, inputs, prober := batchFixture(t, "ok")
	var out strings.Builder

	stats := Run(context.Background(), &cfg, inputs, batchOptions(&cfg, prober, &out))

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Encoded)
	assert.True(t, stats.OK())
	require.Len(t, stats.Results, 2)
	assert.Equal(t, filepath.Join(cfg.Transcode.OutputDir, "clip.mov"), stats.Results[0].Output)
	assert.Equal(t, filepath.Join(cfg.Transcode.OutputDir, "clip - dup1.mov"), stats.Results[1].Output)
	assert.FileExists(t, stats.Results[1].Output)
	assert.Equal(t, int64(2*4096), stats.TotalInputBytes)
	assert.Contains(t, out.String(), "Done: 2 encoded, 0 skipped, 0 failed, 0 aborted")
	assert.Contains(t, out.String(), "realtime")
}

func TestRun_SkipsExisting(t *testing.T) {
	cfg, inputs, prober := batchFixture(t, "ok")
	require.NoError(t, os.MkdirAll(cfg.Transcode.OutputDir, 0o755))
	existing := filepath.Join(cfg.Transcode.OutputDir, "clip.mov")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	var out strings.Builder
	stats := Run(context.Background(), &cfg, inputs[:1], batchOptions(&cfg, prober, &out))

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Encoded)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	cfg.SkipExisting = false
	stats = Run(context.Background(), &cfg, inputs[:1], batchOptions(&cfg, prober, &out))
	assert.Equal(t, 1, stats.Encoded, "--force overwrites")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg, inputs, prober := batchFixture(t, "ok")
	cfg.DryRun = true

	var out strings.Builder
	stats := Run(context.Background(), &cfg, inputs, batchOptions(&cfg, prober, &out))

	assert.Equal(t, 2, stats.Encoded)
	assert.Empty(t, stats.Results)
	assert.NoDirExists(t, cfg.Transcode.OutputDir)
	assert.Contains(t, out.String(), "[DRY] Would run:")
	assert.Contains(t, out.String(), "-filter:v")
}

func TestRun_CountsFailures(t *testing.T) {
	cfg, inputs, prober := batchFixture(t, "fail-encode")

	var out strings.Builder
	stats := Run(context.Background(), &cfg, inputs, batchOptions(&cfg, prober, &out))

	assert.Equal(t, 2, stats.Failed)
	assert.False(t, stats.OK())
	assert.Contains(t, out.String(), "Last ffmpeg output:")
	assert.Contains(t, out.String(), "No such filter: 'rubberband'")
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	cfg, inputs, prober := batchFixture(t, "ok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	stats := Run(ctx, &cfg, inputs, batchOptions(&cfg, prober, &out))

	assert.Equal(t, 0, stats.Encoded)
	assert.Empty(t, stats.Results)
	assert.Contains(t, out.String(), "Interrupted")
}

func TestRun_MissingInput(t *testing.T) {
	cfg := config.DefaultConfig()
	stats := Run(context.Background(), &cfg, []string{filepath.Join(t.TempDir(), "nope.mov")}, Options{})
	assert.Equal(t, 1, stats.Failed)
}

func TestInspect(t *testing.T) {
	_, inputs, prober := batchFixture(t, "ok")
	film := palSource(inputs[1])
	film.FrameRate = 23.976
	film.FieldOrder = "tt"
	prober.descs[inputs[1]] = film

	s := config.DefaultSettings()
	s.AudioMode = config.AudioModeStereo
	rows, err := Inspect(context.Background(), inputs, &s, prober, logging.Discard())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Zero(t, rows[0].Ratio)
	assert.Equal(t, "scale=1440:1080,pad=1920:1080:240:0:black", rows[0].Geometry)
	assert.InDelta(t, 25/23.976, rows[1].Ratio, 1e-9)
	assert.Equal(t, []string{"field order tt"}, rows[1].Notes)

	table := RenderInspect(rows)
	assert.Contains(t, table, "clip.dv")
	assert.Contains(t, table, "720x576 dvvideo")
	assert.Contains(t, table, "00:00:10.00")
}
