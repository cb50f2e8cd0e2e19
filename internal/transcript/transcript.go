package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"silencecut/internal/language"
	"silencecut/internal/services"
)

// Segment is one timed line from the speech-to-text artifact, expressed on
// the original (uncut) timeline.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the whole speech-to-text artifact.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// NonEmpty counts segments whose text is not blank.
func (t Transcript) NonEmpty() int {
	count := 0
	for _, seg := range t.Segments {
		if strings.TrimSpace(seg.Text) != "" {
			count++
		}
	}
	return count
}

// Load reads and validates a transcript file in one pass.
func Load(path string) (Transcript, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Transcript{}, services.Wrap(services.ErrConfiguration, "transcript", "load", "segments path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Transcript{}, services.Wrap(services.ErrNotFound, "transcript", "load", fmt.Sprintf("segments file %q not found", path), err)
		}
		return Transcript{}, services.Wrap(services.ErrConfiguration, "transcript", "load", "read segments file", err)
	}
	return Parse(data)
}

// Parse decodes transcript JSON and validates segment timing. Blank text is
// accepted here; the remapper is responsible for skipping it.
func Parse(data []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", "decode segments json", err)
	}
	for i, seg := range t.Segments {
		if err := validateSegment(seg); err != nil {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "parse", fmt.Sprintf("segment %d", i), err)
		}
	}
	if t.Language != "" {
		if normalized, ok := language.Normalize(t.Language); ok {
			t.Language = normalized
		}
	}
	return t, nil
}

func validateSegment(seg Segment) error {
	if math.IsNaN(seg.Start) || math.IsNaN(seg.End) || math.IsInf(seg.Start, 0) || math.IsInf(seg.End, 0) {
		return errors.New("non-finite timestamp")
	}
	if seg.Start < 0 {
		return fmt.Errorf("negative start %.3f", seg.Start)
	}
	if seg.End < seg.Start {
		return fmt.Errorf("end %.3f before start %.3f", seg.End, seg.Start)
	}
	return nil
}
