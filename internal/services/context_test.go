package services_test

import (
	"context"
	"testing"

	"silencecut/internal/services"
)

func TestRunScopeLayers(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-123")
	detect := services.WithStage(ctx, "detect")
	encode := services.WithStage(detect, "encode")

	if id, ok := services.RunIDFromContext(encode); !ok || id != "run-123" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
	if stage, _ := services.StageFromContext(detect); stage != "detect" {
		t.Fatalf("parent stage = %q, want detect", stage)
	}
	if stage, _ := services.StageFromContext(encode); stage != "encode" {
		t.Fatalf("child stage = %q, want encode", stage)
	}
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("stage leaked into the run context")
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	base := services.WithRunID(context.Background(), "run-1")
	if got := services.WithStage(base, ""); got != base {
		t.Fatal("blank stage should return the same context")
	}
	if got := services.WithRunID(base, ""); got != base {
		t.Fatal("blank run id should return the same context")
	}
	if _, ok := services.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on a bare context")
	}
}
