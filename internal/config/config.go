// Package config loads application settings from YAML with sensible
// defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Linking controls how datasets are aligned at startup.
	Linking struct {
		// LinkType is the initial alignment scheme, "pixels" or "wcs".
		LinkType string `yaml:"linkType"`

		// WCSFallbackScheme pixel-links datasets without coordinates
		// when set to "pixels"; empty disables the fallback.
		WCSFallbackScheme string `yaml:"wcsFallbackScheme"`

		// UseAffine approximates coordinate links with affine fits.
		UseAffine bool `yaml:"useAffine"`

		// ErrorOnFail surfaces linking failures instead of keeping the
		// previous links silently.
		ErrorOnFail bool `yaml:"errorOnFail"`
	} `yaml:"linking"`

	// Viewers controls the initial viewer layout.
	Viewers struct {
		// Count is the number of viewers opened at startup.
		Count int `yaml:"count"`
	} `yaml:"viewers"`

	// Logging controls diagnostic output.
	Logging struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`

		// JSON switches the log output to structured JSON records.
		JSON bool `yaml:"json"`
	} `yaml:"logging"`

	// Session controls persistence of application state.
	Session struct {
		// Path is where sessions are saved by default.
		Path string `yaml:"path"`

		// AutoSave writes the session after every mutation.
		AutoSave bool `yaml:"autoSave"`
	} `yaml:"session"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Linking.LinkType = "pixels"
	cfg.Linking.WCSFallbackScheme = "pixels"
	cfg.Linking.UseAffine = true
	cfg.Linking.ErrorOnFail = false

	cfg.Viewers.Count = 1

	cfg.Logging.Level = "info"
	cfg.Logging.JSON = false

	cfg.Session.Path = "session.json"
	cfg.Session.AutoSave = false

	return cfg
}

// Load reads configuration from a YAML file, returning defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate rejects settings with no meaning.
func (c *Config) Validate() error {
	switch c.Linking.LinkType {
	case "pixels", "wcs":
	default:
		return fmt.Errorf("invalid linking.linkType %q", c.Linking.LinkType)
	}
	switch c.Linking.WCSFallbackScheme {
	case "", "pixels":
	default:
		return fmt.Errorf("invalid linking.wcsFallbackScheme %q", c.Linking.WCSFallbackScheme)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Viewers.Count < 1 {
		return fmt.Errorf("viewers.count must be at least 1")
	}
	return nil
}
