// Package cutter re-encodes the kept spans of a media file into one
// continuous output.
//
// BuildFilterGraph turns a keep set into a trim/atrim + concat filter_complex
// expression; Cutter runs ffmpeg with that graph and fixed encoder settings,
// reporting -progress blocks to an optional callback. There is no partial
// recovery: a failed encode must be rerun from the start.
package cutter
