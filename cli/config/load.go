package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "skysift.yaml"

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config struct with defaults applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadDefault loads DefaultPath if it exists, otherwise returns a Config of
// pure defaults. A present-but-broken config file is still an error.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultPath); err != nil {
		cfg := &Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return Load(DefaultPath)
}
