package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/video"
	"github.com/opd-ai/vfgraph/limits"
)

// Defaults applied by Validate.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultWidth       = 640
	DefaultHeight      = 480
	DefaultPixelFormat = "yuv420p"
)

var (
	// ErrUnknownFormat indicates a config file extension that is not decoded.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrUnknownPreset indicates a preset name missing from the preset table.
	ErrUnknownPreset = errors.New("unknown filter preset")

	// ErrConflictingDescription indicates both an inline description and a
	// script file were given.
	ErrConflictingDescription = errors.New("description and script are mutually exclusive")
)

// Validate fills defaults and checks the configuration.
func Validate(cfg *Config) error {
	applyDefaults(cfg)

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	if err := limits.ValidateFrameSize(cfg.Stream.Width, cfg.Stream.Height); err != nil {
		return errors.Wrap(err, "stream")
	}
	if _, err := video.ParsePixelFormat(cfg.Stream.PixelFormat); err != nil {
		return errors.Wrap(err, "stream.pixel_format")
	}

	if cfg.Filter.Description != "" && cfg.Filter.Script != "" {
		return ErrConflictingDescription
	}
	if cfg.Filter.Preset != "" {
		if _, ok := cfg.Filter.Presets[cfg.Filter.Preset]; !ok {
			return errors.Wrapf(ErrUnknownPreset, "filter.preset %q", cfg.Filter.Preset)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Stream.Width == 0 && cfg.Stream.Height == 0 {
		cfg.Stream.Width = DefaultWidth
		cfg.Stream.Height = DefaultHeight
	}
	if cfg.Stream.PixelFormat == "" {
		cfg.Stream.PixelFormat = DefaultPixelFormat
	}
}

// PixelFormat returns the parsed stream pixel format. Call after Validate.
func (c *Config) PixelFormat() video.PixelFormat {
	f, err := video.ParsePixelFormat(c.Stream.PixelFormat)
	if err != nil {
		return video.PixelFormatNone
	}
	return f
}
