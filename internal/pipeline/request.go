package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"silencecut/internal/services"
	"silencecut/internal/timeline"
)

// Detection holds the silencedetect parameters.
type Detection struct {
	NoiseDB     float64
	MinDuration float64
}

// Outputs are the final artifact paths of a run. SRT is only written when
// the request names a transcript.
type Outputs struct {
	Video  string `json:"video"`
	SRT    string `json:"srt,omitempty"`
	CutLog string `json:"cut_log"`
}

// DefaultOutputs derives output paths next to input from its stem.
func DefaultOutputs(input string) Outputs {
	dir := filepath.Dir(input)
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	if ext == "" {
		ext = ".mp4"
	}
	return Outputs{
		Video:  filepath.Join(dir, stem+"_cut"+ext),
		SRT:    filepath.Join(dir, stem+"_cut.srt"),
		CutLog: filepath.Join(dir, stem+"_cuts.csv"),
	}
}

// PlanRequest describes a dry run.
type PlanRequest struct {
	Input        string
	SegmentsPath string
	Detection    Detection
	Plan         timeline.PlanParams
}

// Request describes a full run.
type Request struct {
	PlanRequest
	Outputs Outputs
	// RunID is generated when empty.
	RunID string
}

func (r PlanRequest) validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return services.Wrap(services.ErrValidation, "request", "", "input path is required", nil)
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"silence threshold", r.Plan.SilenceThreshold},
		{"keep pad", r.Plan.KeepPad},
		{"detect min duration", r.Detection.MinDuration},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < 0 {
			return services.Wrap(services.ErrValidation, "request", "", fmt.Sprintf("%s must be a non-negative number, got %v", c.name, c.value), nil)
		}
	}
	if math.IsNaN(r.Detection.NoiseDB) || r.Detection.NoiseDB >= 0 {
		return services.Wrap(services.ErrValidation, "request", "", fmt.Sprintf("noise level must be negative dB, got %v", r.Detection.NoiseDB), nil)
	}
	return nil
}

func (r Request) validate() error {
	if err := r.PlanRequest.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Outputs.Video) == "" || strings.TrimSpace(r.Outputs.CutLog) == "" {
		return services.Wrap(services.ErrValidation, "request", "", "video and cut log output paths are required", nil)
	}
	if r.SegmentsPath != "" && strings.TrimSpace(r.Outputs.SRT) == "" {
		return services.Wrap(services.ErrValidation, "request", "", "srt output path is required with a transcript", nil)
	}
	seen := map[string]string{}
	for name, path := range r.outputPaths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		inputAbs, _ := filepath.Abs(r.Input)
		if abs == inputAbs {
			return services.Wrap(services.ErrValidation, "request", "", name+" output would overwrite the input", nil)
		}
		if other, ok := seen[abs]; ok {
			return services.Wrap(services.ErrValidation, "request", "", fmt.Sprintf("%s and %s outputs share a path", other, name), nil)
		}
		seen[abs] = name
	}
	return nil
}

// outputPaths lists the artifacts this request will commit.
func (r Request) outputPaths() map[string]string {
	paths := map[string]string{
		"video":   r.Outputs.Video,
		"cut log": r.Outputs.CutLog,
	}
	if r.SegmentsPath != "" {
		paths["srt"] = r.Outputs.SRT
	}
	return paths
}

// Plan is the edit decision for one input.
type Plan struct {
	Input        string              `json:"input"`
	Duration     float64             `json:"duration"`
	Silences     []timeline.Interval `json:"silences"`
	Cuts         []timeline.Interval `json:"cuts"`
	Keep         []timeline.Interval `json:"keep"`
	Entries      []timeline.Entry    `json:"entries,omitempty"`
	Language     string              `json:"language,omitempty"`
	CutSeconds   float64             `json:"cut_seconds"`
	KeptSeconds  float64             `json:"kept_seconds"`
	SegmentCount int                 `json:"segment_count,omitempty"`
}

// Result is the outcome of a committed run.
type Result struct {
	Plan
	RunID         string                   `json:"run_id"`
	OutputSeconds float64                  `json:"output_seconds"`
	Outputs       Outputs                  `json:"outputs"`
	Stages        map[string]time.Duration `json:"stages"`
	Warnings      []string                 `json:"warnings,omitempty"`
}
