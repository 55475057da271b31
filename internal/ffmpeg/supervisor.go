package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/backmassage/themis/internal/logging"
)

// commandContext is swapped out in tests to run a helper process.
var commandContext = exec.CommandContext

// DefaultAbortGrace is how long an aborted child gets between SIGTERM and
// SIGKILL when no grace period is configured.
const DefaultAbortGrace = 10 * time.Second

// maxLineSize bounds one diagnostic line; longer lines end the scan.
const maxLineSize = 1 << 20

// ExitStatus is the outcome of a finished child process.
type ExitStatus struct {
	// Code is the exit code, -1 when the process was killed by a signal.
	Code int
	// Aborted is true when Abort was called before the process exited.
	Aborted bool
}

// Success reports a clean exit.
func (s ExitStatus) Success() bool { return s.Code == 0 && !s.Aborted }

// Supervisor owns one child process for its lifetime: it starts the child in
// its own process group, streams the diagnostic (stderr) output line by line
// and terminates the whole group on Abort.
//
// Start, Scan and Wait are called in that order from one goroutine. Abort may
// be called from any goroutine at any time, before, during or after the run.
type Supervisor struct {
	bin   string
	grace time.Duration
	log   *logging.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	stderr    io.ReadCloser
	aborted   bool
	exited    bool
	killTimer *time.Timer
}

// NewSupervisor returns a Supervisor that runs bin. A zero grace uses
// DefaultAbortGrace; a nil log discards read errors.
func NewSupervisor(bin string, grace time.Duration, log *logging.Logger) *Supervisor {
	if grace <= 0 {
		grace = DefaultAbortGrace
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Supervisor{bin: bin, grace: grace, log: log}
}

// Start spawns the child with args. It returns ErrAborted if Abort was
// already called. Cancelling ctx aborts the child.
func (s *Supervisor) Start(ctx context.Context, args []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted {
		return ErrAborted
	}
	if s.cmd != nil {
		return errors.New("ffmpeg: supervisor already started")
	}

	cmd := commandContext(ctx, s.bin, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		s.Abort()
		return nil
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.bin, err)
	}

	s.cmd = cmd
	s.stderr = stderr
	s.log.Debug("started %s (pid %d)", s.bin, cmd.Process.Pid)
	return nil
}

// Scan reads the diagnostic stream and calls fn for every line, split on
// both \r and \n, until the child closes it. It blocks on the caller's
// goroutine. Read errors are logged and end the scan like EOF.
func (s *Supervisor) Scan(fn func(line string)) {
	s.mu.Lock()
	stderr := s.stderr
	s.mu.Unlock()
	if stderr == nil {
		return
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLinesWithCR)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			fn(line)
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn("reading %s output: %v", s.bin, err)
		// Drain so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stderr)
	}
}

// Wait blocks until the child exits and returns its status. A nonzero exit
// is reported in the status, not as an error; the error is reserved for
// failures to wait at all.
func (s *Supervisor) Wait() (ExitStatus, error) {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil {
		return ExitStatus{Code: -1, Aborted: s.Aborted()}, errors.New("ffmpeg: supervisor not started")
	}

	err := cmd.Wait()

	s.mu.Lock()
	s.exited = true
	if s.killTimer != nil {
		s.killTimer.Stop()
	}
	status := ExitStatus{Code: cmd.ProcessState.ExitCode(), Aborted: s.aborted}
	s.mu.Unlock()

	// After an abort a clean exit may surface as the context error.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && !status.Aborted {
		return status, fmt.Errorf("wait %s: %w", s.bin, err)
	}
	s.log.Debug("%s exited with code %d", s.bin, status.Code)
	return status, nil
}

// Abort terminates the child's process group: SIGTERM now, SIGKILL after
// the grace period if it is still running. Safe to call repeatedly and from
// any goroutine; a call before Start makes Start fail with ErrAborted.
func (s *Supervisor) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted {
		return
	}
	s.aborted = true

	if s.cmd == nil || s.cmd.Process == nil || s.exited {
		return
	}

	proc := s.cmd.Process
	s.log.Debug("terminating %s (pid %d)", s.bin, proc.Pid)
	if err := terminateGroup(proc); err != nil {
		s.log.Debug("terminate %s: %v", s.bin, err)
	}
	s.killTimer = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.exited {
			return
		}
		s.log.Warn("%s ignored termination; killing process group", s.bin)
		if err := killGroup(proc); err != nil {
			s.log.Debug("kill %s: %v", s.bin, err)
		}
	})
}

// Aborted reports whether Abort has been called.
func (s *Supervisor) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Run is Start, Scan and Wait in sequence.
func (s *Supervisor) Run(ctx context.Context, args []string, fn func(line string)) (ExitStatus, error) {
	if err := s.Start(ctx, args); err != nil {
		return ExitStatus{Code: -1, Aborted: s.Aborted()}, err
	}
	s.Scan(fn)
	return s.Wait()
}
