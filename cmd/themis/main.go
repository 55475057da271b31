// Command themis is the CLI entrypoint for the Themis transcode engine.
//
// It conforms arbitrary source media to one delivery format: target frame
// size, frame rate, pixel format and codec, with interlace detection,
// film-to-video reclocking and per-track audio conditioning.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "0.3.0"
	commit  = "unknown"
)

// exitError carries a process exit code for failures that were already
// reported through the logger.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	os.Exit(run())
}

func run() int {
	// SIGINT/SIGTERM cancel ctx; the running job is aborted and the batch
	// stops without leaving partial output.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	defer app.close()

	err := newRootCommand(app).ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "themis: %v\n", err)
	}
	return 1
}
