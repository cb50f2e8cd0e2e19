// Package logging assembles structured slog loggers and formatting helpers used
// across silencecut.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline stages automatically
// tag log lines with run IDs and stage names. The console handler prints a
// one-line header followed by a short list of highlighted fields; everything
// else is reachable at debug level or in JSON output.
//
// The package also provides a no-op logger for tests, a sampler that keeps
// encode progress logging readable, and log retention pruning.
package logging
