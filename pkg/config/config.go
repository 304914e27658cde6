// Package config loads the driver configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config is the content of a ttexec configuration file
type Config struct {
	Program   string   `yaml:"program"`
	Libraries []string `yaml:"libraries"`
	LogLevel  string   `yaml:"log-level"`
	Output    string   `yaml:"output"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{LogLevel: "warn", Output: OutputText}
}

// Load reads and validates the configuration file at path. Missing
// settings keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads a configuration from YAML
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of values
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	}
	return fmt.Errorf("%w: output %q", ErrInvalidConfig, c.Output)
}

// Level is the parsed log level
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return level, nil
}
