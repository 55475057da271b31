package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/themis/internal/check"
	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/display"
	"github.com/backmassage/themis/internal/metrics"
	"github.com/backmassage/themis/internal/pipeline"
	"github.com/backmassage/themis/internal/term"
)

func newTranscodeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcode <input>...",
		Short: "Transcode files or directories to the target format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscode(cmd.Context(), a, args)
		},
	}
	a.flags.BindTranscode(cmd.Flags())
	return cmd
}

func runTranscode(ctx context.Context, a *app, inputs []string) error {
	cfg, log := &a.cfg, a.log

	if len(inputs) > 1 || isDir(inputs[0]) {
		if cfg.Transcode.OutputPath != "" || cfg.Transcode.BaseName != "" {
			return errors.New("--output and --name need a single input file")
		}
	}
	if err := validateOutputDir(cfg, inputs); err != nil {
		return err
	}

	display.PrintBanner(os.Stdout)
	log.Info("=== Themis v%s (%s) ===", version, commit)
	log.Info("Out: %s", cfg.Transcode.OutputDir)
	log.Info("")

	// Fail fast if ffmpeg/ffprobe or a required filter are unavailable.
	if err := check.CheckDeps(cfg, log); err != nil {
		log.Error("%v", err)
		return exitError{code: 1}
	}

	stopWarn := context.AfterFunc(ctx, func() {
		log.Warn("Received interrupt, aborting current job")
	})
	defer stopWarn()

	opts := pipeline.OptionsFromConfig(cfg, log)
	if cfg.MetricsAddr != "" {
		if _, err := metrics.Serve(ctx, cfg.MetricsAddr, log); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		opts.Observer = metrics.NewJobObserver()
	}
	if cfg.ShowProgress && term.Interactive() {
		bar := newProgressReporter(os.Stderr)
		opts.OnProgress = bar.Update
		opts.OnFinish = bar.Finish
	} else {
		opts.OnProgress = func(phase pipeline.Phase, percent float64) {
			log.Progress("%s %.1f%%", phase, percent)
		}
	}

	stats := pipeline.Run(ctx, cfg, inputs, opts)
	if !stats.OK() {
		return exitError{code: 1}
	}
	return nil
}

// validateOutputDir rejects an output directory inside (or equal to) an
// input directory, so a batch never rediscovers its own outputs.
func validateOutputDir(cfg *config.Config, inputs []string) error {
	if cfg.Transcode.OutputPath != "" {
		return nil
	}
	outputAbs, err := absPath(cfg.Transcode.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory %s: %w", cfg.Transcode.OutputDir, err)
	}
	for _, in := range inputs {
		if !isDir(in) {
			continue
		}
		inputAbs, err := absPath(in)
		if err != nil {
			return fmt.Errorf("resolve input %s: %w", in, err)
		}
		if err := config.ValidatePaths(inputAbs, outputAbs); err != nil {
			return fmt.Errorf("%w (input %s)", err, in)
		}
	}
	return nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
