package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSilence(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	u, err := url.Parse(topic)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateSilence() error {
	s := c.Silence
	for name, value := range map[string]float64{
		"silence.noise_db":            s.NoiseDB,
		"silence.detect_min_duration": s.DetectMinDuration,
		"silence.min_cut_duration":    s.MinCutDuration,
		"silence.pad_seconds":         s.PadSeconds,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if s.NoiseDB >= 0 {
		return fmt.Errorf("silence.noise_db must be negative (dBFS), got %v", s.NoiseDB)
	}
	if s.DetectMinDuration <= 0 {
		return errors.New("silence.detect_min_duration must be positive")
	}
	if s.MinCutDuration < 0 {
		return errors.New("silence.min_cut_duration must be zero or positive")
	}
	if s.PadSeconds < 0 {
		return errors.New("silence.pad_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 51 {
		return fmt.Errorf("encoding.crf must be between 0 and 51, got %d", c.Encoding.CRF)
	}
	if strings.ContainsAny(c.Encoding.VideoCodec+c.Encoding.AudioCodec, " \t") {
		return errors.New("encoding codecs must not contain whitespace")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must be zero (no limit) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
