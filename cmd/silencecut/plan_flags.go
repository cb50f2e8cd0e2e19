package main

import (
	"strings"

	"github.com/spf13/cobra"

	"silencecut/internal/config"
	"silencecut/internal/pipeline"
	"silencecut/internal/timeline"
)

// planFlags are the detection and planning overrides shared by cut and plan.
// Unset flags fall back to the [silence] config section.
type planFlags struct {
	input     string
	segments  string
	silence   float64
	keepPad   float64
	noiseDB   float64
	detectMin float64
}

func (f *planFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Input video file")
	flags.StringVarP(&f.segments, "segments", "s", "", "Transcript segments JSON (optional)")
	flags.Float64Var(&f.silence, "silence", 0, "Minimum silence length to cut, seconds (default silence.min_cut_duration)")
	flags.Float64Var(&f.keepPad, "keep-pad", 0, "Padding added to each side of a cut, seconds (default silence.pad_seconds)")
	flags.Float64Var(&f.noiseDB, "noise-db", 0, "Silence threshold in dB (default silence.noise_db)")
	flags.Float64Var(&f.detectMin, "detect-min", 0, "Shortest silence ffmpeg reports, seconds (default silence.detect_min_duration)")
	_ = cmd.MarkFlagRequired("input")
}

func (f *planFlags) request(cmd *cobra.Command, cfg *config.Config) (pipeline.PlanRequest, error) {
	input, err := config.ExpandPath(strings.TrimSpace(f.input))
	if err != nil {
		return pipeline.PlanRequest{}, err
	}
	segments := strings.TrimSpace(f.segments)
	if segments != "" {
		if segments, err = config.ExpandPath(segments); err != nil {
			return pipeline.PlanRequest{}, err
		}
	}

	req := pipeline.PlanRequest{
		Input:        input,
		SegmentsPath: segments,
		Detection: pipeline.Detection{
			NoiseDB:     cfg.Silence.NoiseDB,
			MinDuration: cfg.Silence.DetectMinDuration,
		},
		Plan: timeline.PlanParams{
			SilenceThreshold: cfg.Silence.MinCutDuration,
			KeepPad:          cfg.Silence.PadSeconds,
		},
	}
	flags := cmd.Flags()
	if flags.Changed("silence") {
		req.Plan.SilenceThreshold = f.silence
	}
	if flags.Changed("keep-pad") {
		req.Plan.KeepPad = f.keepPad
	}
	if flags.Changed("noise-db") {
		req.Detection.NoiseDB = f.noiseDB
	}
	if flags.Changed("detect-min") {
		req.Detection.MinDuration = f.detectMin
	}
	return req, nil
}
