// Package config loads the server configuration from a TOML file, with
// sensible defaults when no file is present.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Storage configuration
	Database DatabaseConfig `toml:"database"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port           int      `toml:"port"`            // Listen port
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins for the frontend
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite file
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
			},
		},
		Database: DatabaseConfig{
			Path: "collect.db",
		},
	}
}

// Load loads the configuration from path. Returns the default config when the
// file does not exist; an unreadable or malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	return nil
}
