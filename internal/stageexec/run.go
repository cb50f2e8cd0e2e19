// Package stageexec runs one named pipeline stage with uniform logging,
// optional timeout, and timing capture.
package stageexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"silencecut/internal/logging"
	"silencecut/internal/services"
)

// Observer receives the wall time of each completed or failed stage.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration)
}

// Func is the stage body. The logger already carries run and stage fields.
type Func func(ctx context.Context, logger *slog.Logger) error

// Options controls stage execution.
type Options struct {
	Logger    *slog.Logger
	StageName string
	// Timeout bounds the stage when positive. Expiry is reported as
	// services.ErrTimeout and is never retried.
	Timeout  time.Duration
	Observer Observer
	// Attrs are added to the stage start line.
	Attrs []logging.Attr
}

// Run executes fn as the named stage and returns its elapsed time.
func Run(ctx context.Context, opts Options, fn Func) (time.Duration, error) {
	if fn == nil {
		return 0, fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)

	var cancel context.CancelFunc = func() {}
	if opts.Timeout > 0 {
		stageCtx, cancel = context.WithTimeout(stageCtx, opts.Timeout)
	}
	defer cancel()

	startAttrs := append([]logging.Attr{logging.String(logging.FieldEventType, "stage_start")}, opts.Attrs...)
	stageLogger.Debug("stage started", logging.Args(startAttrs...)...)

	started := time.Now()
	err := fn(stageCtx, stageLogger)
	elapsed := time.Since(started)
	if opts.Observer != nil {
		opts.Observer.ObserveStage(opts.StageName, elapsed)
	}

	if err != nil {
		if opts.Timeout > 0 && errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = services.Wrap(services.ErrTimeout, opts.StageName, "", fmt.Sprintf("exceeded %s", opts.Timeout), err)
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String(logging.FieldErrorKind, services.Marker(err)),
			logging.String(logging.FieldErrorHint, stageHint(err)),
			logging.Duration("stage_duration", elapsed),
			logging.Error(err),
		)
		return elapsed, err
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", elapsed),
	)
	return elapsed, nil
}

func stageHint(err error) string {
	switch {
	case errors.Is(err, services.ErrTimeout):
		return "raise tools.timeout_seconds or check for a stalled ffmpeg"
	case errors.Is(err, services.ErrExternalTool):
		return "run silencecut status and rerun with --log-level debug for the ffmpeg command"
	case errors.Is(err, services.ErrValidation):
		return "check the input file and flag values"
	case errors.Is(err, services.ErrConfiguration):
		return "run silencecut config validate"
	default:
		return "check logs for details"
	}
}
