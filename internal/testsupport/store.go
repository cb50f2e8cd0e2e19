package testsupport

import (
	"context"
	"testing"

	"silencecut/internal/config"
	"silencecut/internal/history"
)

// MustOpenHistory opens the history database named by cfg and closes it when
// the test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// FinishedRun describes a run SeedRuns records from start to finish.
type FinishedRun struct {
	RunID   string
	Input   string
	Outcome history.Outcome
}

// SeedRuns begins and finishes each run in order.
func SeedRuns(t testing.TB, store *history.Store, runs ...FinishedRun) {
	t.Helper()
	ctx := context.Background()
	for _, run := range runs {
		if _, err := store.Begin(ctx, run.RunID, run.Input); err != nil {
			t.Fatalf("Begin %s: %v", run.RunID, err)
		}
		if err := store.Finish(ctx, run.RunID, run.Outcome); err != nil {
			t.Fatalf("Finish %s: %v", run.RunID, err)
		}
	}
}
