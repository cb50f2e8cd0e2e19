package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"silencecut/internal/config"
)

// ConfigOption adjusts the config NewConfig returns. base is the per-test
// temp directory holding every generated path.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns default settings with work, log and history paths under
// a fresh temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		WorkDir:   filepath.Join(base, "work"),
		LogDir:    filepath.Join(base, "logs"),
		HistoryDB: filepath.Join(base, "state", "history.db"),
	}
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp directory behind a config from NewConfig.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

// WithMetricsTextfile points the metrics export at base/metrics/name.
func WithMetricsTextfile(name string) ConfigOption {
	return func(_ testing.TB, base string, cfg *config.Config) {
		cfg.Metrics.Textfile = filepath.Join(base, "metrics", name)
	}
}

// WithStubScripts writes each name -> shell script body into base/bin and
// points the matching [tools] binary at it. Scripts for other names are
// reachable through PATH.
func WithStubScripts(scripts map[string]string) ConfigOption {
	return func(t testing.TB, base string, cfg *config.Config) {
		t.Helper()
		bin := filepath.Join(base, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		for name, body := range scripts {
			path := filepath.Join(bin, name)
			if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
			switch name {
			case "ffmpeg":
				cfg.Tools.FFmpeg = path
			case "ffprobe":
				cfg.Tools.FFprobe = path
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
