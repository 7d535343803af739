// Package config handles YAML config file loading for the skysift CLI.
package config

import (
	"fmt"
	"time"
)

// DefaultPreset is used when neither flag nor config names one.
const DefaultPreset = "DBSCAN (fast)"

// Presets is the fixed set of analysis preset labels offered by the shell.
var Presets = []string{
	"DBSCAN (fast)",
	"DBSCAN (precise)",
	"local search",
	"spectral analysis",
}

// Config represents a skysift.yaml configuration file.
// All values are optional and act as defaults for analyze flags.
// CLI flags always override config values.
type Config struct {
	// ResultsDir is the directory run output trees are created under.
	ResultsDir string `yaml:"results_dir"`
	// LogsDir is the directory the app log file lives in.
	LogsDir string `yaml:"logs_dir"`
	// HistoryFile is the MRU history JSON path.
	HistoryFile string `yaml:"history_file"`
	// SettingsFile is the settings JSON path.
	SettingsFile string `yaml:"settings_file"`
	// Preset is the default analysis preset label.
	Preset string `yaml:"preset"`
	// Pacing tunes the stub engine's progress pacing.
	Pacing PacingConfig `yaml:"pacing"`
}

// PacingConfig holds stub pacing defaults from the config file.
type PacingConfig struct {
	// StepDelay is the inter-sub-step delay (e.g. "200ms").
	StepDelay Duration `yaml:"step_delay"`
	// SubSteps is the number of progress sub-steps per stage.
	SubSteps int `yaml:"sub_steps"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
	if c.HistoryFile == "" {
		c.HistoryFile = "resources/history.json"
	}
	if c.SettingsFile == "" {
		c.SettingsFile = "resources/settings.json"
	}
	if c.Preset == "" {
		c.Preset = DefaultPreset
	}
}

// ValidatePreset checks that the label is one of the offered presets.
func ValidatePreset(label string) error {
	for _, p := range Presets {
		if p == label {
			return nil
		}
	}
	return fmt.Errorf("unknown preset %q", label)
}

// Duration wraps time.Duration for YAML string parsing (e.g. "200ms", "1s").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "200ms" or "1s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
