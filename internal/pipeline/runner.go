package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/display"
	"github.com/backmassage/themis/internal/ffmpeg"
	"github.com/backmassage/themis/internal/logging"
	"github.com/backmassage/themis/internal/naming"
)

const minFileSize = 1000

// Run is the batch entry point. It expands inputs, runs one job per file
// sequentially and returns aggregate stats. Cancelling ctx aborts the
// running job and stops the batch. opts.Log is the batch logger.
func Run(ctx context.Context, cfg *config.Config, inputs []string, opts Options) RunStats {
	var stats RunStats
	log := opts.Log
	if log == nil {
		log = logging.Discard()
		opts.Log = log
	}

	files, err := ExpandInputs(inputs)
	if err != nil {
		log.Error("Input discovery failed: %v", err)
		stats.Failed++
		return stats
	}

	stats.Total = len(files)
	resolver := naming.NewCollisionResolver()

	logBatchHeader(cfg, log, &stats)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted, %d file(s) not started", stats.Total-i)
			break
		}

		processFile(ctx, cfg, opts, path, &stats, resolver)
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one media file: validate → resolve output → skip or
// plan → run the job → update stats.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	opts Options,
	path string,
	stats *RunStats,
	resolver *naming.CollisionResolver,
) {
	log := opts.Log
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		stats.Failed++
		return
	}
	if fi.Size() < minFileSize {
		log.Error("File too small (possibly corrupt): %s", path)
		stats.Failed++
		return
	}

	// --- Resolve output path ---
	settings := cfg.Transcode
	requested, err := naming.OutputPath(&settings, path)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return
	}
	outputPath := resolver.Resolve(path, requested)
	if outputPath != requested {
		log.Warn("Output collision, writing %s", filepath.Base(outputPath))
	}
	setOutput := func(s *config.Settings) { s.OutputPath = outputPath }

	// --- Skip-existing check ---
	if cfg.SkipExisting {
		if _, err := os.Stat(outputPath); err == nil {
			log.Warn("Skip (exists): %s", filepath.Base(outputPath))
			stats.Skipped++
			return
		}
	}

	job := NewJob(path, settings, opts, setOutput)

	// --- Dry-run ---
	if cfg.DryRun {
		preview, err := job.Plan(ctx)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				stats.Aborted++
				return
			}
			log.Error("Planning failed: %v", err)
			stats.Failed++
			return
		}
		log.Success("[DRY] Would run: %s", ffmpeg.CommandLine(job.opts.FFmpegPath, preview.Args))
		stats.Encoded++
		return
	}

	// --- Execute ---
	res := job.Run(ctx)
	stats.Results = append(stats.Results, res)

	switch res.Phase {
	case PhaseCompleted:
		stats.Encoded++
		stats.TotalInputBytes += fi.Size()
		if outInfo, err := os.Stat(res.Output); err == nil {
			stats.TotalOutputBytes += outInfo.Size()
		}
	case PhaseAborted:
		stats.Aborted++
	default:
		stats.Failed++
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	s := &cfg.Transcode
	log.Info("Found %d files", stats.Total)
	log.Info("Target: %dx%d @ %g fps, %s %s, %s",
		s.Width, s.Height, s.FrameRate, s.VideoCodec, s.PixelFormat, strings.ToUpper(s.Container))
	audio := s.AudioCodec
	if audio == "" {
		audio = "container default"
	}
	log.Info("Audio: %s at %d Hz, %s", audio, s.AudioSampleRate, s.AudioMode)
	if s.Deinterlace {
		log.Info("Deinterlace: auto-detect and apply yadif")
	}
	if s.CropDetect {
		log.Info("Crop detection: report only")
	}
	if !cfg.SkipExisting {
		log.Info("Existing outputs: overwrite")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d encoded, %d skipped, %d failed, %d aborted",
		stats.Encoded, stats.Skipped, stats.Failed, stats.Aborted)

	if cfg.DryRun || stats.TotalInputBytes == 0 {
		return
	}
	log.Info("  Size change: %s (input %s -> output %s)",
		display.FormatBytesWithSign(stats.SizeChange()),
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalOutputBytes))
}
