// Package pipeline orchestrates a silence-removal run.
//
// Runner.Run executes probe, detect, plan, encode, remap, emit, and commit in
// order. Every artifact is produced inside a run-scoped scratch directory and
// moved to its final path only after all stages succeed, so a failed run
// leaves no partial outputs behind. Runner.Plan stops after planning (and an
// optional remap) for dry runs.
//
// External work goes through the Tools interface. NewFFmpegTools wires the
// production ffmpeg/ffprobe implementations; tests substitute fakes.
package pipeline
