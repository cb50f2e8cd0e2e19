package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"silencecut/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "silencecut", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".cache", "silencecut", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.HistoryDB != filepath.Join(tempHome, ".local", "share", "silencecut", "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Paths.HistoryDB)
	}
	if cfg.Silence.NoiseDB != -30 || cfg.Silence.DetectMinDuration != 0.3 {
		t.Fatalf("unexpected detector defaults: %+v", cfg.Silence)
	}
	if cfg.Silence.MinCutDuration != 0.6 || cfg.Silence.PadSeconds != 0.15 {
		t.Fatalf("unexpected planner defaults: %+v", cfg.Silence)
	}
	if cfg.Encoding.VideoCodec != "libx264" || cfg.Encoding.Preset != "veryfast" || cfg.Encoding.CRF != 20 {
		t.Fatalf("unexpected video encoding defaults: %+v", cfg.Encoding)
	}
	if cfg.Encoding.AudioCodec != "aac" || cfg.Encoding.AudioBitrate != "128k" {
		t.Fatalf("unexpected audio encoding defaults: %+v", cfg.Encoding)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Metrics.Textfile != "" {
		t.Fatalf("expected metrics disabled by default, got %q", cfg.Metrics.Textfile)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "silencecut.toml")

	type payload struct {
		Silence struct {
			MinCutDuration float64 `toml:"min_cut_duration"`
			PadSeconds     float64 `toml:"pad_seconds"`
		} `toml:"silence"`
		Encoding struct {
			CRF int `toml:"crf"`
		} `toml:"encoding"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Silence.MinCutDuration = 1.2
	custom.Silence.PadSeconds = 0.1
	custom.Encoding.CRF = 23
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " Debug "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Silence.MinCutDuration != 1.2 || cfg.Silence.PadSeconds != 0.1 {
		t.Fatalf("unexpected silence settings: %+v", cfg.Silence)
	}
	if cfg.Silence.NoiseDB != -30 {
		t.Fatalf("expected omitted keys to keep defaults, got noise_db %v", cfg.Silence.NoiseDB)
	}
	if cfg.Encoding.CRF != 23 {
		t.Fatalf("unexpected crf: %d", cfg.Encoding.CRF)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "silencecut.toml")
	if err := os.WriteFile(configPath, []byte("[silence]\nnoise = -20.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
	if !strings.Contains(err.Error(), "noise") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestEnvironmentToolFallbacks(t *testing.T) {
	t.Setenv("SILENCECUT_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("SILENCECUT_FFPROBE", "/opt/ffmpeg/bin/ffprobe")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected ffprobe binary %q", cfg.FFprobeBinary())
	}
}

func TestExplicitToolPathWinsOverEnvironment(t *testing.T) {
	t.Setenv("SILENCECUT_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	configPath := filepath.Join(t.TempDir(), "silencecut.toml")
	if err := os.WriteFile(configPath, []byte("[tools]\nffmpeg = \"/usr/local/bin/ffmpeg\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.FFmpegBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"positive noise", func(c *config.Config) { c.Silence.NoiseDB = 3 }, "noise_db"},
		{"zero detect min", func(c *config.Config) { c.Silence.DetectMinDuration = 0 }, "detect_min_duration"},
		{"negative pad", func(c *config.Config) { c.Silence.PadSeconds = -0.1 }, "pad_seconds"},
		{"crf range", func(c *config.Config) { c.Encoding.CRF = 60 }, "crf"},
		{"negative timeout", func(c *config.Config) { c.Tools.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Silence.PadSeconds != 0.15 {
		t.Fatalf("unexpected pad seconds from sample: %v", cfg.Silence.PadSeconds)
	}
}
