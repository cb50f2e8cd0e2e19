// Package transcript loads the speech-to-text artifact consumed by the cut
// pipeline: an ordered list of {start, end, text} segments plus a language
// tag, read as a whole file.
package transcript
