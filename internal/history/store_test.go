package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"silencecut/internal/history"
	"silencecut/internal/services"
	"silencecut/internal/testsupport"
)

func TestBeginAndFinishCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run, err := store.Begin(ctx, "run-1", "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if run == nil || run.Status != history.StatusRunning || run.FinishedAt != nil {
		t.Fatalf("unexpected new run: %#v", run)
	}

	err = store.Finish(ctx, "run-1", history.Outcome{
		OutputPath:    "/videos/talk_cut.mp4",
		InputSeconds:  10,
		OutputSeconds: 9,
		CutSeconds:    1,
		CutCount:      1,
	})
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.OutputPath != "/videos/talk_cut.mp4" || got.CutCount != 1 || got.OutputSeconds != 9 {
		t.Fatalf("unexpected finished run: %#v", got)
	}
	if got.FinishedAt == nil || got.Elapsed() < 0 {
		t.Fatalf("expected finish time, got %#v", got.FinishedAt)
	}
	if got.ErrorMessage != "" || got.FailedStage != "" {
		t.Fatalf("expected no failure details, got %q / %q", got.FailedStage, got.ErrorMessage)
	}
}

func TestFinishFailedRecordsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "run-2", "/videos/a.mp4"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Finish(ctx, "run-2", history.Outcome{FailedStage: "encode", Err: errors.New("ffmpeg exited 1")}); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	got, err := store.Get(ctx, "run-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusFailed || got.FailedStage != "encode" || got.ErrorMessage != "ffmpeg exited 1" {
		t.Fatalf("unexpected failed run: %#v", got)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	err := store.Finish(context.Background(), "missing", history.Outcome{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBeginRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if _, err := store.Begin(context.Background(), "  ", "/videos/a.mp4"); err == nil {
		t.Fatal("expected error for blank run id")
	}
}

func TestRecentNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Begin(ctx, id, "/videos/"+id+".mp4"); err != nil {
			t.Fatalf("Begin %s failed: %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("unexpected recent runs: %+v", runs)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[history.StatusRunning] != 3 {
		t.Fatalf("expected 3 running, got %v", stats)
	}
}

func TestMarkInterrupted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "stale", "/videos/a.mp4"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	count, err := store.MarkInterrupted(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("MarkInterrupted failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 interrupted run, got %d", count)
	}
	got, err := store.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusFailed || got.ErrorMessage != "interrupted" {
		t.Fatalf("unexpected run after interruption: %#v", got)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Begin(context.Background(), "persisted", "/videos/a.mp4"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	got, err := reopened.Get(context.Background(), "persisted")
	if err != nil || got == nil {
		t.Fatalf("expected persisted run, got %v / %v", got, err)
	}
	if reopened.Path() != cfg.Paths.HistoryDB {
		t.Fatalf("Path = %q, want %q", reopened.Path(), cfg.Paths.HistoryDB)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 9"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("Open error = %v, want ErrSchemaMismatch", err)
	}
}
