package pipeline

import (
	"context"

	"github.com/backmassage/themis/internal/ffmpeg"
	"github.com/backmassage/themis/internal/naming"
	"github.com/backmassage/themis/internal/planner"
	"github.com/backmassage/themis/internal/probe"
)

// Preview is the encode a job would run.
type Preview struct {
	Output     string
	Descriptor *probe.MediaDescriptor
	Plan       *planner.Plan
	Args       []string // ffmpeg arguments, without the binary.
}

// Plan probes and analyzes the source and builds the encode command without
// creating the output directory or starting the encoder. The analysis pass
// does run. Abort and ctx cancellation stop it with ErrAborted. A job is
// either planned or run, not both.
func (j *Job) Plan(ctx context.Context) (*Preview, error) {
	stop := context.AfterFunc(ctx, j.Abort)
	defer stop()

	s, err := j.resolveSettings()
	if err != nil {
		return nil, err
	}
	output, err := naming.OutputPath(&s, j.Input)
	if err != nil {
		return nil, err
	}
	desc, err := j.probe(ctx)
	if err != nil {
		return nil, err
	}
	if err := j.checkpoint(); err != nil {
		return nil, err
	}
	plan, err := j.analyze(ctx, desc, &s)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Output:     output,
		Descriptor: desc,
		Plan:       plan,
		Args:       ffmpeg.EncodeArgs(j.Input, output, plan, j.opts.Verbose),
	}, nil
}
