package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/themis/internal/check"
	"github.com/backmassage/themis/internal/pipeline"
	"github.com/backmassage/themis/internal/probe"
)

func newInspectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input>...",
		Short: "Probe files and show how the target settings would treat them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := &probe.FFProbe{Bin: a.cfg.FFprobePath}
			rows, err := pipeline.Inspect(cmd.Context(), args, &a.cfg.Transcode, prober, a.log)
			if len(rows) > 0 {
				fmt.Fprint(cmd.OutOrStdout(), pipeline.RenderInspect(rows))
			}
			return err
		},
	}
	a.flags.BindPlan(cmd.Flags())
	return cmd
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg, ffprobe and the required filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check.RunCheck(&a.cfg, a.log) {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "themis %s (%s)\n", version, commit)
		},
	}
}
