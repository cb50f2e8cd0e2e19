// Package silence detects silent spans in a media file using ffmpeg's
// silencedetect filter.
//
// Detector streams ffmpeg's stderr line by line while the process runs and
// feeds each line to Parser, a one-state machine that pairs silence_start
// and silence_end events. The returned intervals are raw: thresholding and
// padding happen later in the timeline package.
package silence
