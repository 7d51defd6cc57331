package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the mount command's tunables. Values from the config file
// are applied over the defaults; flags override both.
type Config struct {
	// TimeoutSeconds is the idle timeout applied to stamped archive
	// sessions.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// SweepSeconds is the cadence of the background sweep loop.
	SweepSeconds int `yaml:"sweep_seconds"`
	// Keep lists archive paths that must never be reaped while mounted.
	Keep []string `yaml:"keep"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 60,
		SweepSeconds:   10,
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Timeout returns the idle timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SweepInterval returns the sweep cadence as a duration.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}
