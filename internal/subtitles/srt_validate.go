package subtitles

import (
	"fmt"
	"os"
)

// DurationTolerance is how far the last cue may end past the encoded output
// before it is reported. Encoders pad the final audio frame, so exact
// equality is not expected.
const DurationTolerance = 1.0

// Validate checks a written SRT file. It returns a list of issues; an empty
// slice means the file passed. videoSeconds <= 0 skips the duration check.
func Validate(path string, videoSeconds float64) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	cues, err := Parse(data)
	if err != nil {
		return []string{fmt.Sprintf("parse_error: %v", err)}
	}

	var issues []string
	var last float64
	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("index_gap: cue %d numbered %d", i+1, cue.Index))
		}
		if cue.End <= cue.Start {
			issues = append(issues, fmt.Sprintf("inverted_cue: %d", cue.Index))
		}
		if cue.Text == "" {
			issues = append(issues, fmt.Sprintf("empty_text: %d", cue.Index))
		}
		last = max(last, cue.End)
	}
	if videoSeconds > 0 && last > videoSeconds+DurationTolerance {
		issues = append(issues, fmt.Sprintf("cue_beyond_duration: last=%.3fs video=%.3fs", last, videoSeconds))
	}
	return issues
}
