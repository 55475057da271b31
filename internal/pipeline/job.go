package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/display"
	"github.com/backmassage/themis/internal/ffmpeg"
	"github.com/backmassage/themis/internal/logging"
	"github.com/backmassage/themis/internal/naming"
	"github.com/backmassage/themis/internal/planner"
	"github.com/backmassage/themis/internal/probe"
	"github.com/backmassage/themis/internal/profile"
)

// stderrTailLines is how many encoder diagnostic lines are kept and logged
// when an encode fails.
const stderrTailLines = 20

// Options are the collaborators and callbacks shared by the jobs of a run.
type Options struct {
	FFmpegPath string        // "ffmpeg" when empty.
	AbortGrace time.Duration // SIGTERM to SIGKILL; ffmpeg.DefaultAbortGrace when zero.
	Verbose    bool          // Raise ffmpeg's loglevel and print debug lines.

	Prober   probe.Prober            // ffprobe on PATH when nil.
	Profiles planner.ProfileProvider // profile.Default when nil.
	Log      *logging.Logger         // Discarded when nil.
	Observer Observer                // Lifecycle events, e.g. metrics.

	// OnProgress receives completion percentages while analyzing and
	// encoding, at most once per ffmpeg.ProgressInterval. When nil,
	// progress is logged at debug level.
	OnProgress func(phase Phase, percent float64)

	// OnFinish is called exactly once per job with its terminal result,
	// after any child process has exited.
	OnFinish func(Result)
}

// OptionsFromConfig returns the Options for cfg's tool paths and verbosity.
func OptionsFromConfig(cfg *config.Config, log *logging.Logger) Options {
	return Options{
		FFmpegPath: cfg.FFmpegPath,
		AbortGrace: cfg.AbortGrace(),
		Verbose:    cfg.Verbose,
		Prober:     &probe.FFProbe{Bin: cfg.FFprobePath},
		Log:        log,
	}
}

// Job transcodes one source file. Run drives it through
//
//	Idle → Analyzing → Encoding → {Completed, Failed, Aborted}
//
// on the caller's goroutine. Abort is the only method meant to be called
// concurrently; it wins over any error the job hits at the same time.
type Job struct {
	ID    string
	Input string

	settings  config.Settings
	overrides []func(*config.Settings)
	opts      Options
	log       *logging.Logger
	now       func() time.Time

	started atomic.Bool
	aborted atomic.Bool
	lock    *flock.Flock // held on the output from probe until finish
	partial string       // output written by the encoder; removed unless completed

	mu         sync.Mutex
	phase      Phase
	phaseStart time.Time
	active     *ffmpeg.Supervisor
}

// NewJob returns an idle job for input. settings is copied; overrides are
// applied to the copy in order when the job starts, before validation.
func NewJob(input string, settings config.Settings, opts Options, overrides ...func(*config.Settings)) *Job {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Prober == nil {
		opts.Prober = &probe.FFProbe{}
	}
	if opts.Profiles == nil {
		opts.Profiles = profile.Default{}
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Job{
		ID:        uuid.NewString(),
		Input:     input,
		settings:  settings,
		overrides: overrides,
		opts:      opts,
		log:       opts.Log,
		now:       time.Now,
	}
}

// Phase returns the job's current phase.
func (j *Job) Phase() Phase {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.phase
}

// Abort stops the job: the active child process, if any, is terminated and
// no further child is started. Safe to call from any goroutine, repeatedly,
// before, during or after Run.
func (j *Job) Abort() {
	if !j.aborted.CompareAndSwap(false, true) {
		return
	}
	j.mu.Lock()
	sup := j.active
	j.mu.Unlock()
	if sup != nil {
		sup.Abort()
	}
}

// Aborted reports whether Abort has been called.
func (j *Job) Aborted() bool {
	return j.aborted.Load()
}

// Run executes the job and returns its terminal result. Cancelling ctx
// aborts the job. A job runs once; later calls fail immediately.
func (j *Job) Run(ctx context.Context) Result {
	res := Result{JobID: j.ID, Input: j.Input}
	if !j.started.CompareAndSwap(false, true) {
		res.Phase = PhaseFailed
		res.Err = errAlreadyRun
		return res
	}

	start := j.now()
	j.opts.Observer.JobStarted()
	stop := context.AfterFunc(ctx, j.Abort)
	defer stop()

	func() {
		defer func() {
			if r := recover(); r != nil {
				j.log.Error("Unexpected error: %v", r)
				j.log.Debug("%s", debug.Stack())
				res.Err = fmt.Errorf("%w: %v", ErrEncodeFailed, r)
			}
		}()
		res.Err = j.run(ctx, &res)
	}()

	return j.finish(res, start)
}

// run is the body of Run. It fills res as the job progresses and returns the
// error that ends it, nil on success.
func (j *Job) run(ctx context.Context, res *Result) error {
	// --- Idle: settings, output location, source ---
	s, err := j.resolveSettings()
	if err != nil {
		return err
	}
	j.log.SetStatus("Starting transcoder", logging.LevelInfo)

	output, err := naming.OutputPath(&s, j.Input)
	if err != nil {
		return err
	}
	res.Output = output

	if err := prepareOutputDir(filepath.Dir(output)); err != nil {
		return err
	}

	desc, err := j.probe(ctx)
	if err != nil {
		return err
	}
	res.Descriptor = desc
	res.Duration = s.EffectiveDuration(sourceLength(desc))

	if j.lock, err = lockOutput(output, j.ID, j.log); err != nil {
		return err
	}

	// --- Analyzing: detection, reclock, filter graph ---
	if err := j.checkpoint(); err != nil {
		return err
	}
	j.enter(PhaseAnalyzing)
	j.log.SetStatus("Analyzing source", logging.LevelInfo)
	logSource(j.log, desc)

	plan, err := j.analyze(ctx, desc, &s)
	if err != nil {
		return err
	}
	res.Plan = plan

	// --- Encoding ---
	if err := j.checkpoint(); err != nil {
		return err
	}
	j.enter(PhaseEncoding)
	j.log.SetStatus("Transcoding to "+output, logging.LevelInfo)

	if err := j.encode(ctx, output, plan, res); err != nil {
		return err
	}

	j.verifyOutput(ctx, output, plan)
	return nil
}

// finish classifies the outcome, cleans up and reports it exactly once.
func (j *Job) finish(res Result, start time.Time) Result {
	res.Elapsed = j.now().Sub(start)

	switch {
	case res.Err == nil:
		res.Phase = PhaseCompleted
	case j.aborted.Load() || errors.Is(res.Err, ErrAborted):
		res.Phase = PhaseAborted
		res.Err = ErrAborted
	default:
		res.Phase = PhaseFailed
	}

	if res.Phase != PhaseCompleted && j.partial != "" {
		if err := os.Remove(j.partial); err != nil && !errors.Is(err, os.ErrNotExist) {
			j.log.Warn("Could not remove partial output %s: %v", j.partial, err)
		} else if err == nil {
			j.log.Debug("Removed partial output %s", j.partial)
		}
	}
	if j.lock != nil {
		unlockOutput(j.lock, j.log)
		j.lock = nil
	}

	j.enter(res.Phase)

	switch res.Phase {
	case PhaseCompleted:
		if secs := res.Elapsed.Seconds(); secs > 0 {
			res.Speed = res.Duration / secs
		}
		j.log.Info("transcoding %.2fs long video finished in %s (%.2fx realtime)",
			res.Duration, display.FormatElapsed(res.Elapsed), res.Speed)
		j.log.SetStatus("Completed", logging.LevelGoodNews)
	case PhaseAborted:
		j.log.SetStatus("Aborted", logging.LevelWarning)
	default:
		j.log.SetStatus("Failed: "+res.Err.Error(), logging.LevelError)
	}

	j.opts.Observer.JobFinished(res)
	if j.opts.OnFinish != nil {
		j.opts.OnFinish(res)
	}
	return res
}

// resolveSettings applies the late overrides to a copy of the job settings,
// validates the result and sets the status prefix.
func (j *Job) resolveSettings() (config.Settings, error) {
	s := j.settings
	for _, o := range j.overrides {
		o(&s)
	}
	j.log = j.opts.Log.With(naming.FriendlyName(&s, j.Input))
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, nil
}

func (j *Job) probe(ctx context.Context) (*probe.MediaDescriptor, error) {
	desc, err := j.opts.Prober.Probe(ctx, j.Input)
	if err != nil {
		if j.aborted.Load() {
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	if desc.Path == "" {
		desc.Path = j.Input
	}
	// The frame count may still come from the analysis pass; size and rate
	// cannot.
	if desc.HasVideo() && (desc.Width <= 0 || desc.Height <= 0 || desc.FrameRate <= 0) {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, planner.CheckSource(desc))
	}
	return desc, nil
}

// analyze runs the detection pass, merges its findings into desc and builds
// the encode plan.
func (j *Job) analyze(ctx context.Context, desc *probe.MediaDescriptor, s *config.Settings) (*planner.Plan, error) {
	sup, err := j.spawn()
	if err != nil {
		return nil, err
	}
	det := ffmpeg.Detector{
		Options:    ffmpeg.AnalysisOptions{Deinterlace: s.Deinterlace, CropDetect: s.CropDetect},
		OnProgress: j.progress(PhaseAnalyzing, "Analyzing source"),
	}
	found, err := det.Detect(ctx, sup, j.Input, desc)
	j.release(sup)

	switch {
	case errors.Is(err, ffmpeg.ErrAborted):
		return nil, ErrAborted
	case err != nil:
		j.log.Warn("%v; assuming a progressive source", err)
	}
	desc.Merge(found)

	if desc.Interlaced() {
		j.log.Info("Source is interlaced")
	}
	if desc.Crop != nil {
		j.log.Info("Detected crop %s (not applied)", desc.Crop)
	}

	ratio, ok := planner.ReclockRatio(desc.FrameRate, s.FrameRate)
	if ok {
		j.log.Info("Reclocking %.3f fps to %.3f fps (tempo %.4f)", desc.FrameRate, s.FrameRate, ratio)
	}

	plan, err := planner.BuildGraph(desc, s, ratio, j.opts.Profiles)
	if errors.Is(err, planner.ErrUnusableSource) {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	j.log.Debug("Expected target duration %.2fs", plan.TargetDuration)
	return plan, nil
}

// encode runs ffmpeg for plan and waits for it.
func (j *Job) encode(ctx context.Context, output string, plan *planner.Plan, res *Result) error {
	args := ffmpeg.EncodeArgs(j.Input, output, plan, j.opts.Verbose)
	j.log.Debug("Executing: %s", ffmpeg.CommandLine(j.opts.FFmpegPath, args))

	sup, err := j.spawn()
	if err != nil {
		return err
	}
	defer j.release(sup)

	// Reclocking retimes frames; the encoder emits the source frame count.
	throttle := ffmpeg.NewProgressThrottle(res.Descriptor.NumFrames, j.progress(PhaseEncoding, "Transcoding"))
	tail := newLineTail(stderrTailLines)

	if err := sup.Start(ctx, args); err != nil {
		if errors.Is(err, ffmpeg.ErrAborted) {
			return ErrAborted
		}
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	j.partial = output
	sup.Scan(func(line string) {
		if _, ok := throttle.Line(line); !ok {
			tail.add(line)
		}
	})
	status, err := sup.Wait()

	switch {
	case status.Aborted:
		return ErrAborted
	case err != nil:
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	case !status.Success():
		lines := tail.all()
		logStderr(j.log, lines)
		res.Reason = ffmpeg.ClassifyFailure(lines)
		if res.Reason != "" {
			return fmt.Errorf("%w: ffmpeg exited with code %d: %s", ErrEncodeFailed, status.Code, res.Reason)
		}
		return fmt.Errorf("%w: ffmpeg exited with code %d", ErrEncodeFailed, status.Code)
	}
	return nil
}

// verifyOutput re-probes the finished output and logs its duration against
// the planned one. A mismatch is reported, not enforced.
func (j *Job) verifyOutput(ctx context.Context, output string, plan *planner.Plan) {
	out, err := j.opts.Prober.Probe(ctx, output)
	if err != nil {
		j.log.Warn("Could not probe output: %v", err)
		return
	}
	j.log.Info("Output duration %.2fs (expected %.2fs)", out.Duration, plan.TargetDuration)
}

// spawn returns a supervisor registered as the job's active child, or
// ErrAborted once the job was aborted.
func (j *Job) spawn() (*ffmpeg.Supervisor, error) {
	sup := ffmpeg.NewSupervisor(j.opts.FFmpegPath, j.opts.AbortGrace, j.log)
	j.mu.Lock()
	j.active = sup
	j.mu.Unlock()
	if j.aborted.Load() {
		sup.Abort()
		j.release(sup)
		return nil, ErrAborted
	}
	return sup, nil
}

func (j *Job) release(sup *ffmpeg.Supervisor) {
	j.mu.Lock()
	if j.active == sup {
		j.active = nil
	}
	j.mu.Unlock()
}

// checkpoint is the phase-boundary abort check.
func (j *Job) checkpoint() error {
	if j.aborted.Load() {
		return ErrAborted
	}
	return nil
}

// enter moves the job to phase p and reports the time spent in the phase it
// leaves.
func (j *Job) enter(p Phase) {
	now := j.now()
	j.mu.Lock()
	prev, since := j.phase, j.phaseStart
	j.phase, j.phaseStart = p, now
	j.mu.Unlock()
	if prev == PhaseAnalyzing || prev == PhaseEncoding {
		j.opts.Observer.PhaseFinished(prev, now.Sub(since))
	}
}

func (j *Job) progress(phase Phase, status string) ffmpeg.ProgressFunc {
	return func(percent float64) {
		if j.opts.OnProgress != nil {
			j.opts.OnProgress(phase, percent)
			return
		}
		j.log.Debug("%s (%.02f%% done)", status, percent)
	}
}

// prepareOutputDir creates dir if needed and checks that files can be
// created in it.
func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDirUnwritable, err)
	}
	if err := checkWritable(dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputDirUnwritable, dir, err)
	}
	return nil
}

// sourceLength is the container duration, or the frame-derived duration
// when the container does not report one.
func sourceLength(d *probe.MediaDescriptor) float64 {
	if d.Duration > 0 {
		return d.Duration
	}
	return d.SourceDuration()
}

func logSource(log *logging.Logger, d *probe.MediaDescriptor) {
	codec := d.VideoCodec
	if codec == "" {
		codec = "unknown"
	}
	log.Info("Video: %s | %s | %.3f fps | %d frames | %d audio track(s)",
		d.Resolution(), codec, d.FrameRate, d.NumFrames, len(d.AudioTracks))
}

func logStderr(log *logging.Logger, lines []string) {
	if len(lines) == 0 {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range lines {
		log.Error("  %s", l)
	}
}
