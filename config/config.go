package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"urlkit/location"
	"urlkit/logging"
)

// Config holds urlkit CLI configuration.
type Config struct {
	// Href is the current location every command works against.
	Href string `yaml:"href"`

	// UserAgent is tested against robots.txt groups by the links command.
	UserAgent string `yaml:"user_agent"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UserAgent: "urlkit",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error
// when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration. An empty Href is allowed here and
// rejected later by the commands that need one.
func (c *Config) Validate() error {
	var errs []error
	if c.Href != "" {
		if _, err := location.Parse(c.Href); err != nil {
			errs = append(errs, fmt.Errorf("href: %w", err))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
