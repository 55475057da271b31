package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/display"
	"github.com/backmassage/themis/internal/ffmpeg"
	"github.com/backmassage/themis/internal/pipeline"
	"github.com/backmassage/themis/internal/planner"
)

func newPlanCommand(a *app) *cobra.Command {
	var dumpSettings bool
	cmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Analyze one file and print the encode command without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpSettings {
				out, err := config.EncodeSettings(a.cfg.Transcode)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if len(args) != 1 {
				return errors.New("plan needs exactly one input file")
			}
			return runPlan(cmd.Context(), cmd.OutOrStdout(), a, args[0])
		},
	}
	a.flags.BindPlan(cmd.Flags())
	cmd.Flags().BoolVar(&dumpSettings, "dump-settings", false, "Print the effective transcode settings as TOML and exit")
	return cmd
}

func runPlan(ctx context.Context, w io.Writer, a *app, input string) error {
	opts := pipeline.OptionsFromConfig(&a.cfg, a.log)
	preview, err := pipeline.NewJob(input, a.cfg.Transcode, opts).Plan(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(w, display.KeyValueTable(planRows(input, preview)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, ffmpeg.CommandLine(a.cfg.FFmpegPath, preview.Args))
	return nil
}

func planRows(input string, p *pipeline.Preview) [][2]string {
	d, plan := p.Descriptor, p.Plan
	rows := [][2]string{
		{"Input", input},
		{"Output", p.Output},
		{"Video", d.Resolution() + " " + d.VideoCodec},
		{"Frame rate", strconv.FormatFloat(d.FrameRate, 'f', 3, 64)},
		{"Frames", strconv.Itoa(d.NumFrames)},
		{"Duration", display.FormatTimecode(plan.SourceDuration)},
		{"Interlaced", yesNo(d.Interlaced())},
	}
	if d.Crop != nil {
		rows = append(rows, [2]string{"Crop (detected)", d.Crop.String()})
	}
	rows = append(rows, [2]string{"Audio tracks", strconv.Itoa(len(plan.Graph.Audio))})
	if plan.Reclocked() {
		rows = append(rows,
			[2]string{"Reclock", strconv.FormatFloat(plan.Ratio, 'f', 4, 64)},
			[2]string{"Target duration", display.FormatTimecode(plan.TargetDuration)})
	}
	if v := planner.JoinFilters(plan.Graph.Video); v != "" {
		rows = append(rows, [2]string{"Video filters", v})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
