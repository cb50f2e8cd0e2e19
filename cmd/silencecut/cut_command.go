package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"silencecut/internal/config"
	"silencecut/internal/history"
	"silencecut/internal/logging"
	"silencecut/internal/media/cutter"
	"silencecut/internal/metrics"
	"silencecut/internal/notifications"
	"silencecut/internal/pipeline"
	"silencecut/internal/services"
	"silencecut/internal/staging"
)

// interruptedAfter is how old a "running" history row or a leftover scratch
// directory must be before a new run treats it as abandoned.
const interruptedAfter = 24 * time.Hour

func newCutCommand(ctx *commandContext) *cobra.Command {
	var (
		flags      planFlags
		outVideo   string
		outSRT     string
		outCSV     string
		workDir    string
		noProgress bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Remove silent spans from a video and retime its transcript",
		Long: `Detect silence in the input, cut the long stretches, and re-encode the
remaining spans into a single file. When --segments is given the transcript
is remapped onto the shortened timeline and written as SubRip.

Outputs default to <name>_cut<ext>, <name>_cut.srt and <name>_cuts.csv next
to the input. Nothing is written unless every stage succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			planReq, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}
			outputs := pipeline.DefaultOutputs(planReq.Input)
			if planReq.SegmentsPath == "" {
				if strings.TrimSpace(outSRT) != "" {
					return services.Wrap(services.ErrValidation, "cut", "flags", "--out-srt requires --segments", nil)
				}
				outputs.SRT = ""
			}
			for _, override := range []struct {
				value  string
				target *string
			}{
				{outVideo, &outputs.Video},
				{outSRT, &outputs.SRT},
				{outCSV, &outputs.CutLog},
			} {
				if strings.TrimSpace(override.value) == "" {
					continue
				}
				expanded, err := config.ExpandPath(strings.TrimSpace(override.value))
				if err != nil {
					return err
				}
				*override.target = expanded
			}
			if strings.TrimSpace(workDir) != "" {
				if cfg.Paths.WorkDir, err = config.ExpandPath(strings.TrimSpace(workDir)); err != nil {
					return err
				}
			}

			req := pipeline.Request{
				PlanRequest: planReq,
				Outputs:     outputs,
				RunID:       uuid.NewString(),
			}

			var progress *encodeProgress
			stderr := cmd.ErrOrStderr()
			if !noProgress && !asJSON && isTerminal(stderr) {
				progress = newEncodeProgress(stderr)
				defer progress.close()
			}

			result, runErr := runCut(cmd.Context(), cfg, logger, req, progress)
			if runErr != nil {
				return runErr
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			printCutSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&outVideo, "out-video", "", "Output video path")
	cmd.Flags().StringVar(&outSRT, "out-srt", "", "Output subtitle path (requires --segments)")
	cmd.Flags().StringVar(&outCSV, "out-csv", "", "Output cut log path")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "Scratch directory for staged outputs (default paths.work_dir)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the encode progress bar")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run result as JSON")
	return cmd
}

// runCut executes one pipeline run with history and metrics bookkeeping
// around it. Bookkeeping failures are logged and never fail the run.
func runCut(ctx context.Context, cfg *config.Config, logger *slog.Logger, req pipeline.Request, progress *encodeProgress) (pipeline.Result, error) {
	var recorder *metrics.Recorder
	if strings.TrimSpace(cfg.Metrics.Textfile) != "" {
		recorder = metrics.NewRecorder()
	}

	staging.CleanStale(ctx, cfg.Paths.WorkDir, interruptedAfter, logger)

	store := openHistory(ctx, cfg, logger, req)
	if store != nil {
		defer store.Close()
	}

	opts := pipeline.Options{
		Logger:       logger,
		WorkDir:      cfg.Paths.WorkDir,
		StageTimeout: time.Duration(cfg.Tools.TimeoutSeconds) * time.Second,
		MinFreeGiB:   cfg.Tools.MinFreeGiB,
	}
	if recorder != nil {
		opts.Observer = recorder
	}
	if progress != nil {
		opts.OnProgress = func(p cutter.Progress) { progress.update(p) }
	}

	runner := pipeline.NewRunner(pipeline.NewFFmpegTools(cfg, logger), opts)
	result, err := runner.Run(ctx, req)

	if store != nil {
		outcome := history.Outcome{
			OutputPath:    req.Outputs.Video,
			InputSeconds:  result.Duration,
			OutputSeconds: result.OutputSeconds,
			CutSeconds:    result.CutSeconds,
			CutCount:      len(result.Cuts),
			FailedStage:   pipeline.FailedStage(err),
			Err:           err,
		}
		// A cancelled command context must not prevent the row from closing.
		if ferr := store.Finish(context.WithoutCancel(ctx), req.RunID, outcome); ferr != nil {
			logging.WarnWithContext(logger, "failed to record run outcome", "history_finish",
				logging.String("run_id", req.RunID),
				logging.Error(ferr),
				logging.String(logging.FieldImpact, "run history is incomplete"),
			)
		}
	}

	if recorder != nil {
		recorder.Record(metrics.Summary{
			InputSeconds:  result.Duration,
			OutputSeconds: result.OutputSeconds,
			CutSeconds:    result.CutSeconds,
			Cuts:          len(result.Cuts),
			Succeeded:     err == nil,
			FinishedAt:    time.Now(),
		})
		if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logging.WarnWithContext(logger, "failed to write metrics textfile", "metrics_write",
				logging.String("path", cfg.Metrics.Textfile),
				logging.Error(werr),
				logging.String(logging.FieldImpact, "metrics for this run are not exported"),
			)
		}
	}
	notify(ctx, cfg, logger, req, result, err)
	return result, err
}

func notify(ctx context.Context, cfg *config.Config, logger *slog.Logger, req pipeline.Request, result pipeline.Result, runErr error) {
	event := notifications.EventRunCompleted
	payload := notifications.Payload{"input": req.Input}
	if runErr != nil {
		event = notifications.EventRunFailed
		payload["stage"] = pipeline.FailedStage(runErr)
		payload["error"] = runErr.Error()
	} else {
		payload["cutSeconds"] = result.CutSeconds
		payload["cuts"] = len(result.Cuts)
		payload["inputSeconds"] = result.Duration
		payload["outputSeconds"] = result.OutputSeconds
	}
	if err := notifications.NewService(cfg).Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "run outcome was not pushed"),
		)
	}
}

func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, req pipeline.Request) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open",
			logging.String("path", cfg.Paths.HistoryDB),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		return nil
	}
	if n, err := store.MarkInterrupted(ctx, time.Now().Add(-interruptedAfter)); err != nil {
		logger.Debug("mark interrupted runs failed", logging.Error(err))
	} else if n > 0 {
		logger.Info("marked stale runs as interrupted", logging.Int64("count", n))
	}
	if _, err := store.Begin(ctx, req.RunID, req.Input); err != nil {
		logging.WarnWithContext(logger, "failed to record run start", "history_begin",
			logging.String("run_id", req.RunID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		_ = store.Close()
		return nil
	}
	return store
}

func printCutSummary(out io.Writer, result pipeline.Result) {
	fmt.Fprintf(out, "Input:    %s (%s)\n", result.Input, formatClock(result.Duration))
	fmt.Fprintf(out, "Output:   %s (%s)\n", result.Outputs.Video, formatClock(result.OutputSeconds))
	fmt.Fprintf(out, "Removed:  %s in %d cuts (%s)\n",
		formatSeconds(result.CutSeconds), len(result.Cuts), formatPercent(result.CutSeconds, result.Duration))
	fmt.Fprintf(out, "Cut log:  %s\n", result.Outputs.CutLog)
	if result.Outputs.SRT != "" {
		fmt.Fprintf(out, "SRT:      %s (%d cues)\n", result.Outputs.SRT, len(result.Entries))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "Warning:  %s\n", warning)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
