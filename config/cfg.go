// Package config defines program configuration.
package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

type (
	// SheetConfig names one style source file and the key-prefix it is
	// registered under.
	SheetConfig struct {
		Key  string `yaml:"key"`
		Path string `yaml:"path"`
	}

	LoggingConfig struct {
		Console string `yaml:"console"` // none, normal, debug
	}

	Config struct {
		Logging LoggingConfig `yaml:"logging"`
		Sheets  []SheetConfig `yaml:"sheets,omitempty"`
	}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Console: "normal"},
	}
}

// Load composes the active configuration: defaults overlaid with the YAML
// file at path when one is given. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration '%s': %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration '%s': %w", path, err)
	}
	return cfg, nil
}

// Dump serializes the configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize configuration: %w", err)
	}
	return data, nil
}
