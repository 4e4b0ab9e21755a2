package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./elevtool.yaml",
		filepath.Join(ConfigDir(), "elevtool.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "elevgrid")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "elevgrid")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "elevgrid")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "elevgrid")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so a misspelt limit does not silently fall back.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Limits.MaxFileBytes <= 0 {
		return fmt.Errorf("limits.max_file_bytes must be positive, got %d", c.Limits.MaxFileBytes)
	}
	if c.Limits.MaxSamples < 4 {
		return fmt.Errorf("limits.max_samples must be at least 4, got %d", c.Limits.MaxSamples)
	}
	if !(c.Query.ProbeStep > 0) {
		return fmt.Errorf("query.probe_step must be positive, got %v", c.Query.ProbeStep)
	}
	if c.Render.WidthIn <= 0 || c.Render.HeightIn <= 0 {
		return fmt.Errorf("render size must be positive, got %vx%v in", c.Render.WidthIn, c.Render.HeightIn)
	}
	if c.Render.PaletteLevels < 2 {
		return fmt.Errorf("render.palette_levels must be at least 2, got %d", c.Render.PaletteLevels)
	}
	if !(c.Render.ProfileStep > 0) {
		return fmt.Errorf("render.profile_step must be positive, got %v", c.Render.ProfileStep)
	}
	return nil
}
