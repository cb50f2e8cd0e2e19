package silence

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"silencecut/internal/logging"
	"silencecut/internal/services"
	"silencecut/internal/timeline"
)

const stderrTailLines = 8

var commandContext = exec.CommandContext

// Detector runs ffmpeg's silencedetect filter and parses its log stream.
type Detector struct {
	binary string
	logger *slog.Logger
}

// NewDetector constructs a detector for the given ffmpeg binary.
func NewDetector(binary string, logger *slog.Logger) *Detector {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Detector{binary: binary, logger: logging.NewComponentLogger(logger, "silence")}
}

// FilterArg renders the silencedetect filter expression.
func FilterArg(noiseDB, minDuration float64) string {
	return "silencedetect=noise=" + strconv.FormatFloat(noiseDB, 'f', -1, 64) +
		"dB:d=" + strconv.FormatFloat(minDuration, 'f', -1, 64)
}

// Args returns the ffmpeg argument list used for detection.
func Args(path string, noiseDB, minDuration float64) []string {
	return []string{
		"-hide_banner", "-nostats",
		"-i", path,
		"-af", FilterArg(noiseDB, minDuration),
		"-f", "null", "-",
	}
}

// Detect returns every silence ffmpeg reports in path, unfiltered. Lines are
// parsed as ffmpeg writes them; a non-zero exit discards the partial result.
func (d *Detector) Detect(ctx context.Context, path string, noiseDB, minDuration float64) ([]timeline.Interval, error) {
	args := Args(path, noiseDB, minDuration)
	logger := logging.WithContext(ctx, d.logger)
	logger.Debug("silencedetect starting",
		logging.String("command", d.binary),
		logging.String("args", strings.Join(args, " ")),
	)

	cmd := commandContext(ctx, d.binary, args...) //nolint:gosec
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "ffmpeg silencedetect", "stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "ffmpeg silencedetect", "start "+d.binary, err)
	}

	var parser Parser
	tail := make([]string, 0, stderrTailLines)
	scanner := newLineScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		parser.Feed(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(tail) == stderrTailLines {
			tail = tail[1:]
		}
		tail = append(tail, line)
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		_, _ = io.Copy(io.Discard, stderr)
	}

	if err := cmd.Wait(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "ffmpeg silencedetect", strings.Join(tail, " | "), err)
	}
	if scanErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "ffmpeg silencedetect", "read stderr", scanErr)
	}

	if start, ok := parser.Pending(); ok {
		logger.Debug("silence still open at end of stream; ignored",
			logging.Float64("silence_start", start),
		)
	}
	intervals := parser.Intervals()
	logger.Debug("silencedetect finished", logging.Int("silence_count", len(intervals)))
	return intervals, nil
}
