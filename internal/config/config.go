// Package config handles elevtool configuration loading and management.
package config

import "github.com/Faultbox/elevgrid/pkg/formats"

// Config holds all tool settings.
type Config struct {
	Limits  LimitsConfig  `yaml:"limits"`
	Query   QueryConfig   `yaml:"query"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// LimitsConfig bounds the world files that will be loaded.
type LimitsConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes"`
	MaxSamples   int   `yaml:"max_samples"`
}

// QueryConfig holds height/slope query settings.
type QueryConfig struct {
	ProbeStep float64 `yaml:"probe_step"` // Slope probe distance in world units
}

// RenderConfig holds plot output settings.
type RenderConfig struct {
	WidthIn       float64 `yaml:"width_in"`
	HeightIn      float64 `yaml:"height_in"`
	PaletteLevels int     `yaml:"palette_levels"`
	ProfileStep   float64 `yaml:"profile_step"` // Distance between profile samples
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxFileBytes: formats.DefaultMaxFileBytes,
			MaxSamples:   formats.DefaultMaxSamples,
		},
		Query: QueryConfig{
			ProbeStep: 1.0,
		},
		Render: RenderConfig{
			WidthIn:       8,
			HeightIn:      6,
			PaletteLevels: 64,
			ProfileStep:   0.25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// WBTLimits returns the scanner limits for this config.
func (c *Config) WBTLimits() formats.Limits {
	return formats.Limits{
		MaxFileBytes: c.Limits.MaxFileBytes,
		MaxSamples:   c.Limits.MaxSamples,
	}
}
