package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"silencecut/internal/cutlog"
	"silencecut/internal/logging"
	"silencecut/internal/media/cutter"
	"silencecut/internal/preflight"
	"silencecut/internal/services"
	"silencecut/internal/stageexec"
	"silencecut/internal/staging"
	"silencecut/internal/subtitles"
	"silencecut/internal/timeline"
	"silencecut/internal/transcript"
)

// Stage names in execution order.
const (
	StageProbe  = "probe"
	StageDetect = "detect"
	StagePlan   = "plan"
	StageEncode = "encode"
	StageRemap  = "remap"
	StageEmit   = "emit"
	StageCommit = "commit"
)

// OutputDurationTolerance is the drift between the planned kept length and
// the probed output length above which a warning is logged.
const OutputDurationTolerance = 0.5

// Options configures a Runner.
type Options struct {
	Logger *slog.Logger
	// WorkDir hosts run-scoped scratch directories. Defaults to os.TempDir().
	WorkDir string
	// StageTimeout bounds each external stage when positive.
	StageTimeout time.Duration
	// MinFreeGiB is the free space required in WorkDir before encoding.
	MinFreeGiB int
	Observer   stageexec.Observer
	OnProgress func(cutter.Progress)
}

// Runner executes silence-removal runs.
type Runner struct {
	tools  Tools
	opts   Options
	logger *slog.Logger
}

// NewRunner constructs a Runner around tools.
func NewRunner(tools Tools, opts Options) *Runner {
	if strings.TrimSpace(opts.WorkDir) == "" {
		opts.WorkDir = os.TempDir()
	}
	return &Runner{
		tools:  tools,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
}

type stageRunner struct {
	r      *Runner
	ctx    context.Context
	stages map[string]time.Duration
	failed string
}

func (s *stageRunner) run(name string, external bool, fn stageexec.Func) error {
	if err := s.ctx.Err(); err != nil {
		s.failed = name
		return fmt.Errorf("stage %s not started: %w", name, err)
	}
	var timeout time.Duration
	if external {
		timeout = s.r.opts.StageTimeout
	}
	elapsed, err := stageexec.Run(s.ctx, stageexec.Options{
		Logger:    s.r.logger,
		StageName: name,
		Timeout:   timeout,
		Observer:  s.r.opts.Observer,
	}, fn)
	if s.stages != nil {
		s.stages[name] = elapsed
	}
	if err != nil {
		s.failed = name
	}
	return err
}

// FailedStage returns the stage name recorded on err by Run, if any.
func FailedStage(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// StageError records which stage a run failed in. It unwraps to the cause.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Plan probes, detects, and plans without encoding. When SegmentsPath is set
// the transcript is loaded and remapped onto the planned keep set.
func (r *Runner) Plan(ctx context.Context, req PlanRequest) (Plan, error) {
	if err := req.validate(); err != nil {
		return Plan{}, err
	}
	if err := checkInput(req.Input); err != nil {
		return Plan{}, err
	}
	tr, err := loadTranscript(req.SegmentsPath)
	if err != nil {
		return Plan{}, err
	}

	ctx = services.WithRunID(ctx, uuid.NewString())
	plan := Plan{Input: req.Input}
	sr := &stageRunner{r: r, ctx: ctx}
	if err := r.decide(sr, req, &plan); err != nil {
		return Plan{}, &StageError{Stage: sr.failed, Err: err}
	}
	if tr != nil {
		if err := sr.run(StageRemap, false, r.remapStage(&plan, tr)); err != nil {
			return Plan{}, &StageError{Stage: sr.failed, Err: err}
		}
	}
	return plan, nil
}

// Run executes the full pipeline and commits outputs only if every stage
// succeeded.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	if err := checkInput(req.Input); err != nil {
		return Result{}, err
	}
	tr, err := loadTranscript(req.SegmentsPath)
	if err != nil {
		return Result{}, err
	}

	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	lock, err := acquireOutputLock(req.Outputs.Video)
	if err != nil {
		return Result{}, err
	}
	defer lock.release(logger)

	scratch, err := r.newScratchDir(runID)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logging.WarnWithContext(logger, "failed to remove scratch directory", "scratch_cleanup",
				logging.String("scratch_dir", scratch),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the directory manually"),
				logging.String(logging.FieldImpact, "disk space is not reclaimed"),
			)
		}
	}()

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input", req.Input),
		logging.String("output", req.Outputs.Video),
		logging.String("scratch_dir", scratch),
	)

	result := Result{
		RunID:   runID,
		Outputs: req.Outputs,
		Stages:  make(map[string]time.Duration),
	}
	result.Input = req.Input
	sr := &stageRunner{r: r, ctx: ctx, stages: result.Stages}

	fail := func(err error) (Result, error) {
		return Result{}, &StageError{Stage: sr.failed, Err: err}
	}

	if err := r.decide(sr, req.PlanRequest, &result.Plan); err != nil {
		return fail(err)
	}

	staged := stagedOutputs{
		video:  filepath.Join(scratch, "video"+outputExt(req.Outputs.Video)),
		cutLog: filepath.Join(scratch, "cuts.csv"),
	}
	if tr != nil {
		staged.srt = filepath.Join(scratch, "subtitles.srt")
	}

	if err := sr.run(StageEncode, true, r.encodeStage(req.Input, staged.video, &result)); err != nil {
		return fail(err)
	}
	if err := sr.run(StageRemap, false, r.remapStage(&result.Plan, tr)); err != nil {
		return fail(err)
	}
	if err := sr.run(StageEmit, false, r.emitStage(staged, &result)); err != nil {
		return fail(err)
	}
	if err := sr.run(StageCommit, false, func(ctx context.Context, logger *slog.Logger) error {
		return commit(logger, staged.pairs(req.Outputs))
	}); err != nil {
		return fail(err)
	}

	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("cut_count", len(result.Cuts)),
		logging.Seconds("cut_seconds", result.CutSeconds),
		logging.Seconds("duration_seconds", result.Duration),
		logging.Seconds("output_seconds", result.OutputSeconds),
		logging.String("output", req.Outputs.Video),
	)
	return result, nil
}

// decide runs probe, detect, and plan into plan.
func (r *Runner) decide(sr *stageRunner, req PlanRequest, plan *Plan) error {
	if err := sr.run(StageProbe, true, func(ctx context.Context, logger *slog.Logger) error {
		duration, err := r.tools.ProbeDuration(ctx, req.Input)
		if err != nil {
			return err
		}
		if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
			return services.Wrap(services.ErrValidation, StageProbe, "duration", fmt.Sprintf("unusable duration %v", duration), nil)
		}
		plan.Duration = duration
		logger.Info("input probed", logging.Seconds("duration_seconds", duration), logging.String("input", req.Input))
		return nil
	}); err != nil {
		return err
	}

	if err := sr.run(StageDetect, true, func(ctx context.Context, logger *slog.Logger) error {
		silences, err := r.tools.DetectSilence(ctx, req.Input, req.Detection.NoiseDB, req.Detection.MinDuration)
		if err != nil {
			return err
		}
		plan.Silences = silences
		logger.Info("silences detected",
			logging.Int("silence_count", len(silences)),
			logging.Seconds("silence_seconds", timeline.Total(timeline.Merge(silences))),
		)
		return nil
	}); err != nil {
		return err
	}

	return sr.run(StagePlan, false, func(_ context.Context, logger *slog.Logger) error {
		plan.Cuts = timeline.PlanCuts(plan.Duration, plan.Silences, req.Plan)
		plan.Keep = timeline.ComputeKeep(plan.Duration, plan.Cuts)
		plan.CutSeconds = timeline.Total(plan.Cuts)
		plan.KeptSeconds = timeline.Total(plan.Keep)
		logger.Info("cuts planned",
			logging.Int("cut_count", len(plan.Cuts)),
			logging.Seconds("cut_seconds", plan.CutSeconds),
			logging.Int("keep_count", len(plan.Keep)),
			logging.Seconds("kept_seconds", plan.KeptSeconds),
		)
		if len(plan.Keep) == 0 {
			return services.Wrap(services.ErrValidation, StagePlan, "compute keep", "", cutter.ErrNothingToKeep)
		}
		return nil
	})
}

func (r *Runner) encodeStage(input, stagedVideo string, result *Result) stageexec.Func {
	return func(ctx context.Context, logger *slog.Logger) error {
		keep := result.Keep
		if pt, ok := r.tools.(ProgressTranscoder); ok {
			sampler := logging.NewProgressSampler(5)
			err := pt.TranscodeWithProgress(ctx, input, stagedVideo, keep, func(p cutter.Progress) {
				if sampler.ShouldLog(p.Percent, StageEncode) {
					logger.Info("encode progress",
						logging.Float64(logging.FieldProgressPercent, p.Percent),
						logging.String(logging.FieldProgressStage, StageEncode),
						logging.Seconds("out_seconds", p.OutSeconds),
						logging.String("speed", p.Speed),
					)
				}
				if r.opts.OnProgress != nil {
					r.opts.OnProgress(p)
				}
			})
			if err != nil {
				return err
			}
		} else if err := r.tools.Transcode(ctx, input, stagedVideo, keep); err != nil {
			return err
		}

		result.OutputSeconds = result.KeptSeconds
		probed, err := r.tools.ProbeDuration(ctx, stagedVideo)
		if err != nil {
			logging.WarnWithContext(logger, "could not probe encoded output", "output_probe_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the output with ffprobe"),
				logging.String(logging.FieldImpact, "output duration taken from the plan"),
			)
			return nil
		}
		result.OutputSeconds = probed
		if drift := math.Abs(probed - result.KeptSeconds); drift > OutputDurationTolerance {
			msg := fmt.Sprintf("output duration %.3fs differs from planned %.3fs", probed, result.KeptSeconds)
			result.Warnings = append(result.Warnings, msg)
			logging.WarnWithContext(logger, "output duration drift", "output_duration_drift",
				logging.Seconds("output_seconds", probed),
				logging.Seconds("kept_seconds", result.KeptSeconds),
				logging.String(logging.FieldErrorHint, "check the input for variable frame rate or broken timestamps"),
				logging.String(logging.FieldImpact, "subtitles may drift against the video"),
			)
		}
		return nil
	}
}

func (r *Runner) remapStage(plan *Plan, tr *transcript.Transcript) stageexec.Func {
	return func(_ context.Context, logger *slog.Logger) error {
		if tr == nil {
			logger.Debug("no transcript supplied; remap skipped")
			return nil
		}
		plan.Entries = timeline.Remap(tr.Segments, plan.Keep)
		plan.Language = tr.Language
		plan.SegmentCount = len(tr.Segments)
		logger.Info("transcript remapped",
			logging.Int("segment_count", len(tr.Segments)),
			logging.Int("entry_count", len(plan.Entries)),
			logging.String("language", tr.Language),
		)
		return nil
	}
}

func (r *Runner) emitStage(staged stagedOutputs, result *Result) stageexec.Func {
	return func(_ context.Context, logger *slog.Logger) error {
		if err := cutlog.Write(staged.cutLog, result.Cuts); err != nil {
			return services.Wrap(services.ErrConfiguration, StageEmit, "cut log", staged.cutLog, err)
		}
		if staged.srt == "" {
			return nil
		}
		if err := subtitles.WriteSRT(staged.srt, subtitles.FromEntries(result.Entries)); err != nil {
			return services.Wrap(services.ErrConfiguration, StageEmit, "srt", staged.srt, err)
		}
		for _, issue := range subtitles.Validate(staged.srt, result.OutputSeconds) {
			result.Warnings = append(result.Warnings, issue)
			logging.WarnWithContext(logger, "subtitle check failed", "subtitle_validation",
				logging.String("issue", issue),
				logging.String(logging.FieldErrorHint, "review the transcript timing"),
				logging.String(logging.FieldImpact, "subtitles may display incorrectly"),
			)
		}
		return nil
	}
}

func (r *Runner) newScratchDir(runID string) (string, error) {
	workDir := r.opts.WorkDir
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "scratch", "create work dir", workDir, err)
	}
	if r.opts.MinFreeGiB > 0 {
		if check := preflight.CheckFreeSpace("Work directory space", workDir, r.opts.MinFreeGiB); !check.Passed {
			return "", services.Wrap(services.ErrConfiguration, "scratch", "free space", check.Detail, nil)
		}
	}
	dir, err := staging.Create(workDir, runID)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "scratch", "create scratch dir", workDir, err)
	}
	return dir, nil
}

func checkInput(path string) error {
	check := preflight.CheckInput(path)
	if check.Passed {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "request", "input", check.Detail, err)
	}
	return services.Wrap(services.ErrValidation, "request", "input", check.Detail, nil)
}

func loadTranscript(path string) (*transcript.Transcript, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	tr, err := transcript.Load(path)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func outputExt(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return ".mp4"
}
