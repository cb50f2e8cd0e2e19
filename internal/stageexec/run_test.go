package stageexec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"silencecut/internal/services"
)

type recordingObserver struct {
	stages []string
}

func (r *recordingObserver) ObserveStage(stage string, _ time.Duration) {
	r.stages = append(r.stages, stage)
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRunSuccessLogsAndObserves(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}
	ctx := services.WithRunID(context.Background(), "run-123")

	var sawStage string
	_, err := Run(ctx, Options{Logger: newBufferLogger(&buf), StageName: "plan", Observer: obs}, func(ctx context.Context, _ *slog.Logger) error {
		sawStage, _ = services.StageFromContext(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sawStage != "plan" {
		t.Fatalf("stage in context = %q, want plan", sawStage)
	}
	if len(obs.stages) != 1 || obs.stages[0] != "plan" {
		t.Fatalf("observer stages = %v", obs.stages)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"stage completed"`, `"run_id":"run-123"`, `"stage":"plan"`, `"event_type":"stage_complete"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestRunTimeoutWrapsErrTimeout(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), Options{Logger: newBufferLogger(&buf), StageName: "detect", Timeout: 10 * time.Millisecond}, func(ctx context.Context, _ *slog.Logger) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped DeadlineExceeded, got %v", err)
	}
	if !strings.Contains(buf.String(), `"error_kind":"timeout"`) {
		t.Fatalf("expected timeout error kind in log:\n%s", buf.String())
	}
}

func TestRunParentCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{StageName: "encode", Timeout: time.Hour}, func(ctx context.Context, _ *slog.Logger) error {
		return ctx.Err()
	})
	if errors.Is(err, services.ErrTimeout) {
		t.Fatalf("parent cancellation must not be reported as timeout: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunPassesStageError(t *testing.T) {
	stageErr := services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "exit status 1", nil)
	_, err := Run(context.Background(), Options{StageName: "encode"}, func(context.Context, *slog.Logger) error {
		return stageErr
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRunNilFunc(t *testing.T) {
	if _, err := Run(context.Background(), Options{StageName: "emit"}, nil); err == nil {
		t.Fatal("expected error for nil stage func")
	}
}
