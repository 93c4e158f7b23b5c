// Package config handles workspace configuration for uitest-runner.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Test selection
	Tests []string `yaml:"tests"` // Files or directories to run

	// Execution settings
	Platform         string `yaml:"platform"`       // Active platform for gating
	DefaultTimeoutMs int    `yaml:"defaultTimeout"` // Per-step timeout in ms
	SettleDelayMs    int    `yaml:"settleDelay"`    // Pre-interaction settle in ms

	// Failure artifacts
	ScreenshotOnFailure bool   `yaml:"screenshotOnFailure"`
	ScreenshotDir       string `yaml:"screenshotDir"`

	// Diagnostics
	Verbose bool `yaml:"verbose"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}
