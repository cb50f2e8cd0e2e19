package pipeline

import (
	"context"
	"log/slog"

	"silencecut/internal/config"
	"silencecut/internal/logging"
	"silencecut/internal/media/cutter"
	"silencecut/internal/media/ffprobe"
	"silencecut/internal/media/silence"
	"silencecut/internal/services"
	"silencecut/internal/timeline"
)

// Tools is the set of external capabilities a run needs.
type Tools interface {
	DetectSilence(ctx context.Context, path string, noiseDB, minDuration float64) ([]timeline.Interval, error)
	ProbeDuration(ctx context.Context, path string) (float64, error)
	Transcode(ctx context.Context, input, output string, keep []timeline.Interval) error
}

// ProgressTranscoder is implemented by tools that can report encode progress.
type ProgressTranscoder interface {
	TranscodeWithProgress(ctx context.Context, input, output string, keep []timeline.Interval, onProgress func(cutter.Progress)) error
}

// FFmpegTools implements Tools with ffmpeg and ffprobe.
type FFmpegTools struct {
	ffprobe  string
	detector *silence.Detector
	cutter   *cutter.Cutter
	logger   *slog.Logger
}

// NewFFmpegTools builds production tools from cfg.
func NewFFmpegTools(cfg *config.Config, logger *slog.Logger) *FFmpegTools {
	settings := cutter.Settings{
		VideoCodec:   cfg.Encoding.VideoCodec,
		Preset:       cfg.Encoding.Preset,
		CRF:          cfg.Encoding.CRF,
		AudioCodec:   cfg.Encoding.AudioCodec,
		AudioBitrate: cfg.Encoding.AudioBitrate,
	}
	return &FFmpegTools{
		ffprobe:  cfg.FFprobeBinary(),
		detector: silence.NewDetector(cfg.FFmpegBinary(), logger),
		cutter:   cutter.New(cfg.FFmpegBinary(), settings, logger),
		logger:   logging.NewComponentLogger(logger, "ffprobe"),
	}
}

// DetectSilence runs silencedetect over path.
func (t *FFmpegTools) DetectSilence(ctx context.Context, path string, noiseDB, minDuration float64) ([]timeline.Interval, error) {
	return t.detector.Detect(ctx, path, noiseDB, minDuration)
}

// ProbeDuration returns the container duration of path. Inputs without an
// audio stream are rejected since silence detection needs one.
func (t *FFmpegTools) ProbeDuration(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, t.ffprobe, path)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", path, err)
	}
	if result.Count("audio") == 0 {
		return 0, services.Wrap(services.ErrValidation, "probe", "ffprobe", "no audio stream in "+path, nil)
	}
	duration, ok := result.DurationSeconds()
	if !ok {
		duration, err = ffprobe.Duration(ctx, t.ffprobe, path)
		if err != nil {
			return 0, services.Wrap(services.ErrExternalTool, "probe", "ffprobe duration", path, err)
		}
	}
	logging.WithContext(ctx, t.logger).Debug("probed media",
		logging.String("path", path),
		logging.Seconds("duration_seconds", duration),
		logging.Int("video_streams", result.Count("video")),
		logging.Int("audio_streams", result.Count("audio")),
	)
	return duration, nil
}

// Transcode encodes keep from input to output.
func (t *FFmpegTools) Transcode(ctx context.Context, input, output string, keep []timeline.Interval) error {
	return t.cutter.Cut(ctx, input, output, keep, nil)
}

// TranscodeWithProgress encodes keep from input to output, reporting progress.
func (t *FFmpegTools) TranscodeWithProgress(ctx context.Context, input, output string, keep []timeline.Interval, onProgress func(cutter.Progress)) error {
	return t.cutter.Cut(ctx, input, output, keep, onProgress)
}
