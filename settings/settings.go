// Package settings persists the user-tunable analysis options as a flat
// JSON object. The settings store is independent of the run contract: the
// stub engine does not consume it yet, but the shell edits and persists it.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Settings is the flat options object, one field per tunable.
type Settings struct {
	DBSCANEps        float64 `json:"dbscan_eps"`
	DBSCANMinSamples int     `json:"dbscan_min_samples"`
	Denoise          bool    `json:"denoise"`
	Normalize        bool    `json:"normalize"`
	ResultsPath      string  `json:"results_path"`
	LogsPath         string  `json:"logs_path"`
	Theme            string  `json:"theme"`
}

// Default returns the factory settings.
func Default() Settings {
	return Settings{
		DBSCANEps:        0.35,
		DBSCANMinSamples: 8,
		ResultsPath:      "results",
		LogsPath:         "logs",
		Theme:            "light",
	}
}

// Load reads settings from path. A missing file yields the defaults; a
// malformed file is an error so silent option loss is impossible.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings JSON in %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path atomically.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// Set assigns a named option from its string representation. Used by the
// `settings set` command.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "dbscan_eps":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("dbscan_eps: %w", err)
		}
		s.DBSCANEps = v
	case "dbscan_min_samples":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("dbscan_min_samples: %w", err)
		}
		s.DBSCANMinSamples = v
	case "denoise", "normalize":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "denoise" {
			s.Denoise = v
		} else {
			s.Normalize = v
		}
	case "results_path":
		s.ResultsPath = value
	case "logs_path":
		s.LogsPath = value
	case "theme":
		s.Theme = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
