package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"silencecut/internal/services"
	"silencecut/internal/transcript"
)

func TestLoadReadsSegmentsAndLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	payload := `{
  "segments": [
    {"start": 0.0, "end": 1.5, "text": "hello"},
    {"start": 1.5, "end": 2.0, "text": "   "},
    {"start": 2.0, "end": 3.25, "text": "world"}
  ],
  "language": "Japanese"
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write segments: %v", err)
	}

	tr, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(tr.Segments))
	}
	if tr.NonEmpty() != 2 {
		t.Fatalf("expected 2 non-empty segments, got %d", tr.NonEmpty())
	}
	if tr.Language != "ja" {
		t.Fatalf("expected language normalized to ja, got %q", tr.Language)
	}
	if tr.Segments[2].End != 3.25 {
		t.Fatalf("unexpected segment end: %v", tr.Segments[2].End)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := transcript.Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseRejectsInvalidTiming(t *testing.T) {
	cases := map[string]string{
		"inverted": `{"segments":[{"start":2,"end":1,"text":"x"}]}`,
		"negative": `{"segments":[{"start":-1,"end":1,"text":"x"}]}`,
		"garbage":  `{"segments":`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := transcript.Parse([]byte(payload)); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestParseKeepsUnknownLanguage(t *testing.T) {
	tr, err := transcript.Parse([]byte(`{"segments":[],"language":"Klingon Dialect"}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if tr.Language != "Klingon Dialect" {
		t.Fatalf("unexpected language: %q", tr.Language)
	}
}
