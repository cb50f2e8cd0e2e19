package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"silencecut/internal/history"
	"silencecut/internal/preflight"
	"silencecut/internal/staging"
	"silencecut/internal/testsupport"
)

func TestRenderStatusLine(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "found", false)
	want := "  FFmpeg:" + strings.Repeat(" ", statusLabelWidth-len("FFmpeg:")) + " [OK] found"
	if got != want {
		t.Fatalf("renderStatusLine = %q, want %q", got, want)
	}

	colored := renderStatusLine("FFmpeg", statusError, "", true)
	if want := text.FgRed.Sprint(renderStatusLine("FFmpeg", statusError, "", false)); colored != want {
		t.Fatalf("colorized line = %q, want %q", colored, want)
	}
	if !strings.Contains(colored, "[ERROR]") {
		t.Fatalf("expected ERROR label, got %q", colored)
	}
}

func TestCheckLinesSummary(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "FFmpeg", Passed: true, Detail: "/usr/bin/ffmpeg"},
		{Name: "Work directory", Passed: false, Detail: "permission denied"},
	}, false)
	if len(lines) != 3 {
		t.Fatalf("expected summary plus two lines, got %v", lines)
	}
	requireContains(t, lines[0], "1 of 2 checks failed")
	requireContains(t, lines[1], "[OK] /usr/bin/ffmpeg")
	requireContains(t, lines[2], "[ERROR] permission denied")

	lines = checkLines([]preflight.Result{{Name: "FFmpeg", Passed: true}}, false)
	requireContains(t, lines[0], "[OK] 1 checks passed")
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader(" History ", false)
	if len(lines) != 2 || lines[0] != "== History ==" || lines[1] != strings.Repeat("-", len("== History ==")) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestHistoryStatusLine(t *testing.T) {
	ctx := context.Background()

	if got := historyStatusLine(ctx, false, nil, false); !strings.Contains(got, "[INFO] Disabled") {
		t.Fatalf("disabled line = %q", got)
	}

	broken := historyStatusLine(ctx, true, func() (*history.Store, error) {
		return nil, errors.New("database is locked")
	}, false)
	requireContains(t, broken, "[ERROR] database is locked")

	cfg := testsupport.NewConfig(t)
	open := func() (*history.Store, error) { return history.Open(cfg) }
	requireContains(t, historyStatusLine(ctx, true, open, false), "no runs yet")

	store := testsupport.MustOpenHistory(t, cfg)
	testsupport.SeedRuns(t, store,
		testsupport.FinishedRun{RunID: "run-ok", Input: "/videos/a.mp4", Outcome: history.Outcome{CutCount: 2}},
		testsupport.FinishedRun{RunID: "run-bad", Input: "/videos/b.mp4", Outcome: history.Outcome{FailedStage: "encode", Err: errors.New("boom")}},
	)

	line := historyStatusLine(ctx, true, open, false)
	requireContains(t, line, "[WARN]")
	requireContains(t, line, "1 completed, 1 failed")
}

func TestCLIStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))

	stdout, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	requireContains(t, stdout, `"name"`)
	requireContains(t, stdout, `"passed"`)
}

func TestCLIStatusText(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))

	stdout, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	requireContains(t, stdout, "== Dependencies ==")
	requireContains(t, stdout, "Summary:")
	requireContains(t, stdout, "== State ==")
	requireContains(t, stdout, "none left behind")
	requireContains(t, stdout, "no runs yet")
}

func TestScratchStatusLine(t *testing.T) {
	work := t.TempDir()
	if got := scratchStatusLine(work, false); !strings.Contains(got, "[OK] none left behind") {
		t.Fatalf("empty work dir line = %q", got)
	}
	dir, err := staging.Create(work, "abcdef0123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "video.mp4"), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := scratchStatusLine(work, false)
	requireContains(t, got, "[WARN] 1 left behind (2.0 KiB)")
}
