// Package subtitles writes and checks SubRip files for remapped transcripts.
//
// Timestamps are rendered as HH:MM:SS,mmm with rounded milliseconds. Parse
// and Validate read a written file back so the pipeline can flag numbering
// gaps, inverted cues, and cues that run past the encoded output.
package subtitles
