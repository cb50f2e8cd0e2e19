// Package ffprobe provides a typed wrapper around ffprobe.
//
// Duration runs the minimal format=duration query the pipeline needs before
// planning cuts. Inspect decodes the full JSON stream/format listing and is
// used to confirm an input carries audio and to verify encoded output.
package ffprobe
