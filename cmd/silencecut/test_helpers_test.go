package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"silencecut/internal/config"
	"silencecut/internal/testsupport"
)

const scenarioSegments = `{"language":"en","segments":[
  {"start":3.0,"end":4.2,"text":"hello"},
  {"start":4.95,"end":5.2,"text":"world"}
]}`

const scenarioSRT = "1\n00:00:03,000 --> 00:00:03,900\nhello\n\n2\n00:00:03,950 --> 00:00:04,200\nworld\n"

const scenarioCutLog = "cut_start,cut_end,cut_duration\n3.900,4.900,1.000\n"

// ffmpegStub reports two silences when run with silencedetect, lists the
// required filters for -filters, and otherwise writes a placeholder file to
// its last argument.
const ffmpegStub = `for last; do :; done
case "$*" in
  *silencedetect*)
    echo "[silencedetect @ 0x1] silence_start: 1" >&2
    echo "[silencedetect @ 0x1] silence_end: 1.5 | silence_duration: 0.5" >&2
    echo "[silencedetect @ 0x1] silence_start: 4" >&2
    echo "[silencedetect @ 0x1] silence_end: 4.8 | silence_duration: 0.8" >&2
    ;;
  *-filters*)
    for f in silencedetect trim atrim setpts asetpts concat; do echo " ... $f A->A stub"; done
    ;;
  *) printf 'encoded' > "$last" ;;
esac`

// ffprobeStub reports 10s for the source talk.mp4 and 9.1s for anything else.
const ffprobeStub = `case "$*" in
  *talk.mp4*) echo '{"streams":[{"codec_type":"video"},{"codec_type":"audio"}],"format":{"duration":"10.0"}}' ;;
  *) echo '{"streams":[{"codec_type":"video"},{"codec_type":"audio"}],"format":{"duration":"9.1"}}' ;;
esac`

type cliEnv struct {
	cfg        *config.Config
	configPath string
	dir        string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliEnv {
	t.Helper()
	t.Setenv("SILENCECUT_FFMPEG", "")
	t.Setenv("SILENCECUT_FFPROBE", "")
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	cfg.Tools.MinFreeGiB = 0
	dir := testsupport.BaseDir(cfg)
	env := &cliEnv{cfg: cfg, configPath: filepath.Join(dir, "config.toml"), dir: dir}
	env.writeConfig(t)
	return env
}

// toolStubs installs shell stand-ins for ffmpeg and ffprobe on PATH.
func toolStubs(t *testing.T) testsupport.ConfigOption {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs unsupported on windows")
	}
	return testsupport.WithStubScripts(map[string]string{
		"ffmpeg":  "#!/bin/sh\n" + ffmpegStub + "\n",
		"ffprobe": "#!/bin/sh\n" + ffprobeStub + "\n",
	})
}

func (e *cliEnv) writeConfig(t *testing.T) {
	t.Helper()
	data, err := toml.Marshal(e.cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(e.configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substring string) {
	t.Helper()
	if !strings.Contains(output, substring) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", substring, output)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
