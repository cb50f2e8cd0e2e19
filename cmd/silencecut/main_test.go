package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"silencecut/internal/history"
	"silencecut/internal/pipeline"
	"silencecut/internal/services"
	"silencecut/internal/testsupport"
	"silencecut/internal/timeline"
)

func TestCLIRemapWritesShiftedSubtitles(t *testing.T) {
	env := setupCLITestEnv(t)
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), scenarioSegments)
	cuts := testsupport.WriteText(t, filepath.Join(env.dir, "talk_cuts.csv"), scenarioCutLog)
	out := filepath.Join(env.dir, "talk_cut.srt")

	stdout, _, err := runCLI(t, []string{
		"remap", "--segments", segments, "--cuts", cuts, "--duration", "10", "--srt", out,
	}, env.configPath)
	if err != nil {
		t.Fatalf("remap returned error: %v", err)
	}
	requireContains(t, stdout, "Wrote 2 of 2 segments")
	if got := readFile(t, out); got != scenarioSRT {
		t.Fatalf("srt mismatch:\n%q\nwant\n%q", got, scenarioSRT)
	}

	matches, err := filepath.Glob(filepath.Join(env.dir, ".talk_cut.srt.*.partial"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("staging files left behind: %v", matches)
	}
}

func TestCLIRemapRequiresDurationSource(t *testing.T) {
	env := setupCLITestEnv(t)
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), scenarioSegments)
	cuts := testsupport.WriteText(t, filepath.Join(env.dir, "talk_cuts.csv"), scenarioCutLog)

	_, _, err := runCLI(t, []string{
		"remap", "--segments", segments, "--cuts", cuts, "--srt", filepath.Join(env.dir, "out.srt"),
	}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCLIRemapMissingCutLog(t *testing.T) {
	env := setupCLITestEnv(t)
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), scenarioSegments)

	_, _, err := runCLI(t, []string{
		"remap", "--segments", segments, "--cuts", filepath.Join(env.dir, "missing.csv"),
		"--duration", "10", "--srt", filepath.Join(env.dir, "out.srt"),
	}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(env.dir, "out.srt")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no srt to be written, stat err = %v", statErr)
	}
}

func TestCLIPlanJSON(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")

	stdout, _, err := runCLI(t, []string{
		"plan", "--input", input, "--silence", "0.6", "--keep-pad", "0.1", "--json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	var plan pipeline.Plan
	if err := json.Unmarshal([]byte(stdout), &plan); err != nil {
		t.Fatalf("decode plan: %v\n%s", err, stdout)
	}
	if plan.Duration != 10 {
		t.Fatalf("duration = %v, want 10", plan.Duration)
	}
	if len(plan.Silences) != 2 {
		t.Fatalf("silences = %v, want 2 entries", plan.Silences)
	}
	requireIntervals(t, "cuts", plan.Cuts, []timeline.Interval{{Start: 3.9, End: 4.9}})
	requireIntervals(t, "keep", plan.Keep, []timeline.Interval{{Start: 0, End: 3.9}, {Start: 4.9, End: 10}})
}

func TestCLIPlanTable(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), scenarioSegments)

	stdout, _, err := runCLI(t, []string{
		"plan", "-i", input, "-s", segments, "--silence", "0.6", "--keep-pad", "0.1",
	}, env.configPath)
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	requireContains(t, stdout, "Cut:       1.000s in 1 cuts (10.0%)")
	requireContains(t, stdout, "Subtitles: 2 of 2 segments survive")
	requireContains(t, stdout, "0:00:03.900")
	requireContains(t, stdout, "0:00:04.900")
}

func TestCLICutEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t), testsupport.WithMetricsTextfile("silencecut.prom"))
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), scenarioSegments)

	stdout, _, err := runCLI(t, []string{
		"cut", "-i", input, "-s", segments, "--silence", "0.6", "--keep-pad", "0.1",
	}, env.configPath)
	if err != nil {
		t.Fatalf("cut returned error: %v", err)
	}
	requireContains(t, stdout, "Removed:  1.000s in 1 cuts")

	if got := readFile(t, filepath.Join(env.dir, "talk_cut.mp4")); got != "encoded" {
		t.Fatalf("video content = %q", got)
	}
	if got := readFile(t, filepath.Join(env.dir, "talk_cut.srt")); got != scenarioSRT {
		t.Fatalf("srt mismatch:\n%q", got)
	}
	if got := readFile(t, filepath.Join(env.dir, "talk_cuts.csv")); got != scenarioCutLog {
		t.Fatalf("cut log mismatch:\n%q", got)
	}

	metricsText := readFile(t, env.cfg.Metrics.Textfile)
	requireContains(t, metricsText, "silencecut_last_run_success 1")
	requireContains(t, metricsText, `silencecut_stage_seconds{stage="encode"}`)

	historyOut, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(historyOut), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, historyOut)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	if runs[0].Status != history.StatusCompleted || runs[0].CutCount != 1 {
		t.Fatalf("unexpected run record: %+v", runs[0])
	}
	if runs[0].InputPath != input {
		t.Fatalf("input path = %q, want %q", runs[0].InputPath, input)
	}
}

func TestCLICutWithoutSegmentsSkipsSubtitles(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")
	outVideo := filepath.Join(env.dir, "out", "short.mp4")
	if err := os.MkdirAll(filepath.Dir(outVideo), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stdout, _, err := runCLI(t, []string{
		"cut", "-i", input, "--silence", "0.6", "--keep-pad", "0.1", "--out-video", outVideo, "--json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("cut returned error: %v", err)
	}
	var result pipeline.Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decode result: %v\n%s", err, stdout)
	}
	if result.Outputs.SRT != "" {
		t.Fatalf("expected no srt output, got %q", result.Outputs.SRT)
	}
	if result.Outputs.Video != outVideo {
		t.Fatalf("video output = %q, want %q", result.Outputs.Video, outVideo)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "talk_cut.srt")); !os.IsNotExist(err) {
		t.Fatalf("unexpected srt on disk, stat err = %v", err)
	}
	if _, err := os.Stat(outVideo); err != nil {
		t.Fatalf("expected video at %s: %v", outVideo, err)
	}
}

func TestCLICutRecordsFailure(t *testing.T) {
	env := setupCLITestEnv(t, toolStubs(t))
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")
	segments := testsupport.WriteText(t, filepath.Join(env.dir, "talk.json"), `{"segments":[{"start":5,"end":1,"text":"bad"}]}`)

	_, _, err := runCLI(t, []string{"cut", "-i", input, "-s", segments}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(env.dir, "talk_cut.mp4")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no video output, stat err = %v", statErr)
	}
}

func TestCLIHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	requireContains(t, stdout, "No runs recorded")

	stdout, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json returned error: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", stdout)
	}
}

func TestCLIHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.History.Enabled = false
	env.writeConfig(t)

	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCLIInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[silence]\nnoise_db = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if code := services.ExitCode(err); code == 0 {
		t.Fatalf("expected non-zero exit code for %v", err)
	}
}

func requireIntervals(t *testing.T, name string, got, want []timeline.Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range want {
		if math.Abs(got[i].Start-want[i].Start) > 1e-9 || math.Abs(got[i].End-want[i].End) > 1e-9 {
			t.Fatalf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestCLILogsFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "2026-01-02 10:00:00 INFO [pipeline] Run aaaa1111 – run started\n" +
		"    - Input: talk.mp4\n" +
		"2026-01-02 10:00:01 INFO [pipeline] Run bbbb2222 – run started\n"
	testsupport.WriteText(t, filepath.Join(env.cfg.Paths.LogDir, "silencecut.log"), content)

	stdout, _, err := runCLI(t, []string{"logs", "--run", "aaaa1111-ffff"}, env.configPath)
	if err != nil {
		t.Fatalf("logs returned error: %v", err)
	}
	requireContains(t, stdout, "Run aaaa1111 – run started\n    - Input: talk.mp4")
	if strings.Contains(stdout, "bbbb2222") {
		t.Fatalf("unexpected record from another run:\n%s", stdout)
	}
}

func TestCLITestNotify(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify returned error: %v", err)
	}
	requireContains(t, stdout, "Notifications disabled")

	env.cfg.Notifications.NtfyTopic = server.URL
	env.writeConfig(t)
	stdout, _, err = runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify returned error: %v", err)
	}
	requireContains(t, stdout, "Test notification sent")
	if hits.Load() != 1 {
		t.Fatalf("expected one ntfy request, got %d", hits.Load())
	}
}

func TestCLICutNotifiesFailure(t *testing.T) {
	var body atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body.Store(string(data))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, toolStubs(t))
	env.cfg.Notifications.NtfyTopic = server.URL
	env.writeConfig(t)
	input := testsupport.WriteText(t, filepath.Join(env.dir, "talk.mp4"), "video")

	// Every instant is cut, so planning fails before encode.
	_, _, err := runCLI(t, []string{"cut", "-i", input, "--silence", "0", "--keep-pad", "10"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ := body.Load().(string)
	requireContains(t, got, "talk.mp4 failed at plan")
}

func TestRunReportsExitStatus(t *testing.T) {
	target := filepath.Join(t.TempDir(), "silencecut.toml")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"config", "init", "--path", target}, &stdout, &stderr); code != 0 {
		t.Fatalf("config init exit = %d, stderr %q", code, stderr.String())
	}
	stderr.Reset()
	if code := run([]string{"config", "init", "--path", target}, &stdout, &stderr); code != 2 {
		t.Fatalf("repeated config init exit = %d, want 2", code)
	}
	requireContains(t, stderr.String(), "silencecut: ")
	requireContains(t, stderr.String(), "already exists")
}
