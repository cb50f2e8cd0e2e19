package cutter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"silencecut/internal/logging"
	"silencecut/internal/services"
	"silencecut/internal/timeline"
)

// ErrNothingToKeep is returned when every instant of the input would be cut.
var ErrNothingToKeep = errors.New("no keep intervals to encode")

const stderrTailLines = 8

var commandContext = exec.CommandContext

// Settings are the fixed encoder options applied to the concatenated output.
type Settings struct {
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
}

// DefaultSettings returns libx264 veryfast CRF 20 with 128k AAC audio.
func DefaultSettings() Settings {
	return Settings{
		VideoCodec:   "libx264",
		Preset:       "veryfast",
		CRF:          20,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	}
}

// Cutter re-encodes only the kept spans of a media file.
type Cutter struct {
	binary   string
	settings Settings
	logger   *slog.Logger
}

// New constructs a Cutter for the given ffmpeg binary.
func New(binary string, settings Settings, logger *slog.Logger) *Cutter {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Cutter{binary: binary, settings: settings, logger: logging.NewComponentLogger(logger, "cutter")}
}

// Args returns the full ffmpeg argument list for a cut.
func (c *Cutter) Args(input, output string, keep []timeline.Interval) []string {
	s := c.settings
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-i", input,
		"-filter_complex", BuildFilterGraph(keep),
		"-map", "[v]", "-map", "[a]",
		"-c:v", s.VideoCodec,
	}
	if s.Preset != "" {
		args = append(args, "-preset", s.Preset)
	}
	args = append(args,
		"-crf", strconv.Itoa(s.CRF),
		"-c:a", s.AudioCodec,
		"-b:a", s.AudioBitrate,
		"-progress", "pipe:1",
		output,
	)
	return args
}

// Cut encodes keep from input into output. onProgress, when non-nil, receives
// each ffmpeg progress block. A non-zero exit is fatal and output should be
// treated as garbage.
func (c *Cutter) Cut(ctx context.Context, input, output string, keep []timeline.Interval, onProgress func(Progress)) error {
	if len(keep) == 0 {
		return services.Wrap(services.ErrValidation, "encode", "build filter graph", "", ErrNothingToKeep)
	}
	args := c.Args(input, output, keep)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("ffmpeg encode starting",
		logging.String("command", c.binary),
		logging.Int("keep_count", len(keep)),
		logging.String("filter_graph", BuildFilterGraph(keep)),
	)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "start "+c.binary, err)
	}

	var (
		wg   sync.WaitGroup
		tail []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		parser := newProgressParser(timeline.Total(keep))
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if report, ok := parser.feed(scanner.Text()); ok && onProgress != nil {
				onProgress(report)
			}
		}
		_, _ = io.Copy(io.Discard, stdout)
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if len(tail) == stderrTailLines {
				tail = tail[1:]
			}
			tail = append(tail, line)
		}
		_, _ = io.Copy(io.Discard, stderr)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", strings.Join(tail, " | "), err)
	}
	logger.Debug("ffmpeg encode finished", logging.String("output_path", output))
	return nil
}
