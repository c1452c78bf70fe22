// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Avatar   AvatarConfig   `yaml:"avatar,omitempty"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DefaultsConfig holds default settings for new debates.
type DefaultsConfig struct {
	Format string `yaml:"format"`
	Status string `yaml:"status"`
}

// AvatarConfig holds the avatar generation settings.
type AvatarConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Size    string `yaml:"size,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8184,
		},
		Database: DatabaseConfig{
			Path: storage.DefaultDBPath(),
		},
		Defaults: DefaultsConfig{
			Format: string(core.DefaultFormat),
			Status: string(core.DefaultStatus),
		},
		Avatar: AvatarConfig{
			Enabled: false,
			Model:   "dall-e-3",
			Size:    "1024x1024",
			Dir:     defaultAvatarDir(),
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply .env overrides if file exists
	if env, err := LoadEnv(".env"); err == nil {
		ApplyEnvOverrides(cfg, env)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "voxarena.yaml"
	}
	return filepath.Join(home, ".voxarena", "config.yaml")
}

func defaultAvatarDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "avatars"
	}
	return filepath.Join(home, ".voxarena", "avatars")
}
