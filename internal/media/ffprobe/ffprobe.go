package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoDuration is returned when ffprobe reports no usable duration.
var ErrNoDuration = errors.New("ffprobe: duration unavailable")

var commandContext = exec.CommandContext

// Result is the subset of `ffprobe -show_format -show_streams` a cut run
// reads.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
}

type Format struct {
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect runs ffprobe on path and decodes its JSON report.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	output, err := probe(ctx, binary, "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Duration asks ffprobe for format=duration alone and returns seconds.
// Missing, non-numeric or non-positive output yields ErrNoDuration.
func Duration(ctx context.Context, binary, path string) (float64, error) {
	output, err := probe(ctx, binary, "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", "--", path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	raw := strings.TrimSpace(string(output))
	seconds, ok := parseSeconds(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, raw)
	}
	return seconds, nil
}

// probe runs binary (default "ffprobe") at error verbosity and returns
// stdout. A failed run carries ffprobe's stderr in the error text.
func probe(ctx context.Context, binary string, args ...string) ([]byte, error) {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	output, err := commandContext(ctx, binary, append([]string{"-v", "error"}, args...)...).Output()
	if err == nil {
		return output, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
	}
	return nil, err
}

// Count returns the number of streams whose codec type is kind, e.g. "audio".
func (r Result) Count(kind string) int {
	n := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			n++
		}
	}
	return n
}

// DurationSeconds returns the container duration, falling back to the
// longest stream duration when the container reports none.
func (r Result) DurationSeconds() (float64, bool) {
	if seconds, ok := parseSeconds(r.Format.Duration); ok {
		return seconds, true
	}
	longest := 0.0
	for _, stream := range r.Streams {
		if seconds, ok := parseSeconds(stream.Duration); ok {
			longest = max(longest, seconds)
		}
	}
	return longest, longest > 0
}

func parseSeconds(value string) (float64, bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}
