package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete vfilter configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" toml:"log"`
	Stream StreamConfig `yaml:"stream" toml:"stream"`
	Filter FilterConfig `yaml:"filter" toml:"filter"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // panic .. trace
	Format string `yaml:"format" toml:"format"` // text, json
}

// StreamConfig describes the raw frames read from the input.
type StreamConfig struct {
	Width       int    `yaml:"width" toml:"width"`
	Height      int    `yaml:"height" toml:"height"`
	PixelFormat string `yaml:"pixel_format" toml:"pixel_format"`
}

// FilterConfig holds the filter graph description. At most one of
// Description and Script may be set; Preset takes precedence over both.
type FilterConfig struct {
	Description string            `yaml:"description" toml:"description"`
	Script      string            `yaml:"script" toml:"script"`
	Presets     map[string]string `yaml:"presets" toml:"presets"`
	Preset      string            `yaml:"preset" toml:"preset"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse yaml")
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse toml")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "extension %q", ext)
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// ResolveDescription returns the filter description to apply: the selected
// preset, the inline description or the contents of the script file, in
// that order. Surrounding whitespace is trimmed.
func (c *Config) ResolveDescription() (string, error) {
	if c.Filter.Preset != "" {
		text, ok := c.Filter.Presets[c.Filter.Preset]
		if !ok {
			return "", errors.Wrapf(ErrUnknownPreset, "%q", c.Filter.Preset)
		}
		return strings.TrimSpace(text), nil
	}
	if c.Filter.Script != "" {
		return ReadScript(c.Filter.Script)
	}
	return strings.TrimSpace(c.Filter.Description), nil
}

// ReadScript reads a filter description from a script file.
func ReadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read filter script")
	}
	return strings.TrimSpace(string(data)), nil
}
