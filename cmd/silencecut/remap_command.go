package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"silencecut/internal/config"
	"silencecut/internal/cutlog"
	"silencecut/internal/fileutil"
	"silencecut/internal/logging"
	"silencecut/internal/media/ffprobe"
	"silencecut/internal/services"
	"silencecut/internal/subtitles"
	"silencecut/internal/timeline"
	"silencecut/internal/transcript"
)

func newRemapCommand(ctx *commandContext) *cobra.Command {
	var (
		segmentsPath string
		cutsPath     string
		inputPath    string
		outPath      string
		duration     float64
	)

	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Retime a transcript onto an existing cut log",
		Long: `Rebuild the SubRip file for a previous cut without re-encoding. The keep
set is derived from the cut log and the original duration, which is read
from --duration or probed from --input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			segments, err := config.ExpandPath(strings.TrimSpace(segmentsPath))
			if err != nil {
				return err
			}
			cuts, err := config.ExpandPath(strings.TrimSpace(cutsPath))
			if err != nil {
				return err
			}
			out, err := config.ExpandPath(strings.TrimSpace(outPath))
			if err != nil {
				return err
			}

			total := duration
			if !cmd.Flags().Changed("duration") {
				input := strings.TrimSpace(inputPath)
				if input == "" {
					return services.Wrap(services.ErrValidation, "remap", "duration", "either --duration or --input is required", nil)
				}
				if input, err = config.ExpandPath(input); err != nil {
					return err
				}
				if total, err = ffprobe.Duration(cmd.Context(), cfg.FFprobeBinary(), input); err != nil {
					return services.Wrap(services.ErrExternalTool, "remap", "ffprobe", "probe input duration", err)
				}
			}
			if total <= 0 {
				return services.Wrap(services.ErrValidation, "remap", "duration", fmt.Sprintf("duration must be positive, got %v", total), nil)
			}

			tr, err := transcript.Load(segments)
			if err != nil {
				return err
			}
			cutList, err := cutlog.Read(cuts)
			if err != nil {
				return err
			}
			keep := timeline.ComputeKeep(total, cutList)
			if len(keep) == 0 {
				return services.Wrap(services.ErrValidation, "remap", "keep", "cut log removes the whole input", nil)
			}
			entries := timeline.Remap(tr.Segments, keep)

			if err := writeSRTAtomic(out, subtitles.FromEntries(entries)); err != nil {
				return err
			}
			for _, issue := range subtitles.Validate(out, timeline.Total(keep)) {
				logging.WarnWithContext(logger, "subtitle validation issue", "srt_validation",
					logging.String("path", out),
					logging.String("issue", issue),
					logging.String(logging.FieldImpact, "subtitles may display incorrectly"),
				)
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", issue)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d of %d segments to %s (%s kept)\n",
				len(entries), len(tr.Segments), out, formatClock(timeline.Total(keep)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&segmentsPath, "segments", "s", "", "Transcript segments JSON")
	cmd.Flags().StringVar(&cutsPath, "cuts", "", "Cut log CSV from a previous run")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Original video, probed for its duration")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Original duration in seconds (skips probing)")
	cmd.Flags().StringVarP(&outPath, "srt", "o", "", "Output SubRip path")
	_ = cmd.MarkFlagRequired("segments")
	_ = cmd.MarkFlagRequired("cuts")
	_ = cmd.MarkFlagRequired("srt")
	return cmd
}

// writeSRTAtomic stages cues next to path and moves them into place.
func writeSRTAtomic(path string, cues []subtitles.Cue) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "remap", "stage srt", "", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	if err := subtitles.WriteSRT(tmpPath, cues); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrConfiguration, "remap", "write srt", "", err)
	}
	if err := fileutil.MoveFile(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrConfiguration, "remap", "commit srt", "", err)
	}
	return nil
}
