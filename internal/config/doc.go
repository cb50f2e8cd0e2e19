// Package config loads, normalizes, and validates silencecut configuration.
//
// Configuration lives in a TOML file (by default
// ~/.config/silencecut/config.toml, falling back to ./silencecut.toml).
// Load merges the file over Default, expands ~ in paths, applies the
// SILENCECUT_FFMPEG / SILENCECUT_FFPROBE environment fallbacks, and runs
// Validate so callers receive a ready-to-use *Config.
//
// CreateSample writes the embedded sample_config.toml for `silencecut config
// init`. Command-line flags override individual fields after loading.
package config
