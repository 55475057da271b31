// Package pipeline runs transcode jobs.
//
// A Job takes one source through Idle → Analyzing → Encoding → {Completed,
// Failed, Aborted}: it resolves and locks the output, probes the source,
// runs the ffmpeg analysis pass, builds the filter graph and supervises the
// encoder. Abort (or context cancellation) terminates the active child and
// removes the partial output.
//
// Run is the batch entry point: it expands inputs (directories via
// Discover), resolves output collisions, skips existing outputs, runs one
// job at a time and logs a summary. Inspect probes files without encoding.
package pipeline
