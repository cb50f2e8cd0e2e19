package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"silencecut/internal/logging"
)

func TestPruneLogsRemovesOnlyStaleMatches(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -40)
	files := map[string]bool{
		"silencecut.log":   true,
		"silencecut-1.log": true,
		"silencecut-2.log": false,
		"notes.txt":        true,
	}
	for name, stale := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if stale {
			if err := os.Chtimes(path, old, old); err != nil {
				t.Fatalf("chtimes %s: %v", name, err)
			}
		}
	}

	removed := logging.PruneLogs(logging.NewNop(), dir, "silencecut*.log", logging.LogFileName, 30)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	for name, wantExists := range map[string]bool{
		"silencecut.log":   true,
		"silencecut-1.log": false,
		"silencecut-2.log": true,
		"notes.txt":        true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != wantExists {
			t.Fatalf("%s exists=%v, want %v", name, exists, wantExists)
		}
	}
}

func TestPruneLogsDisabled(t *testing.T) {
	if got := logging.PruneLogs(nil, t.TempDir(), "*", "", 0); got != 0 {
		t.Fatalf("expected no pruning, got %d", got)
	}
}
