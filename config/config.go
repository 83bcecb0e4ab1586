// Package config provides configuration loading and hot reload of schema
// declarations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	// Database selects the backing database.
	Database DatabaseConfig `yaml:"database"`

	// ModelsDir is the directory of YAML schema declarations. Empty means
	// every model relies on runtime introspection.
	ModelsDir string `yaml:"models_dir"`

	// Logging configures the logger.
	Logging LoggingConfig `yaml:"logging"`
}

// DatabaseConfig selects the backing database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite3"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("config %s: database.dsn is required", path)
	}

	return cfg, nil
}
