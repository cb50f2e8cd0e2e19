package config

const (
	defaultConfigPath        = "~/.config/silencecut/config.toml"
	defaultLogDir            = "~/.local/share/silencecut/logs"
	defaultHistoryDB         = "~/.local/share/silencecut/history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	defaultNoiseDB           = -30.0
	defaultDetectMinDuration = 0.3
	defaultMinCutDuration    = 0.6
	defaultPadSeconds        = 0.15
	defaultVideoCodec        = "libx264"
	defaultPreset            = "veryfast"
	defaultCRF               = 20
	defaultAudioCodec        = "aac"
	defaultAudioBitrate      = "128k"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultMinFreeGiB        = 1
	defaultNtfyTimeout       = 10

	envFFmpeg  = "SILENCECUT_FFMPEG"
	envFFprobe = "SILENCECUT_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir(),
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Silence: Silence{
			NoiseDB:           defaultNoiseDB,
			DetectMinDuration: defaultDetectMinDuration,
			MinCutDuration:    defaultMinCutDuration,
			PadSeconds:        defaultPadSeconds,
		},
		Encoding: Encoding{
			VideoCodec:   defaultVideoCodec,
			Preset:       defaultPreset,
			CRF:          defaultCRF,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
		},
		Tools: Tools{
			FFmpeg:     defaultFFmpegBinary,
			FFprobe:    defaultFFprobeBinary,
			MinFreeGiB: defaultMinFreeGiB,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
	}
}
