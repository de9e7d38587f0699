// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Card catalog configuration
	Database DatabaseConfig `toml:"database"`

	// Local LLM configuration
	Ollama OllamaConfig `toml:"ollama"`

	// Deck construction configuration
	Deck DeckConfig `toml:"deck"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"` // Bind address
	Port int    `toml:"port"` // Listen port
}

// DatabaseConfig contains card catalog settings.
type DatabaseConfig struct {
	Path       string `toml:"path"`        // Path to the SQLite catalog (empty = default location)
	StaleAfter string `toml:"stale_after"` // How long catalog entries stay fresh (e.g., "168h")
}

// OllamaConfig contains local LLM settings.
type OllamaConfig struct {
	Enabled          bool   `toml:"enabled"`           // Use the LLM for extraction, scoring, explanations
	BaseURL          string `toml:"base_url"`          // Ollama API endpoint
	Model            string `toml:"model"`             // Model name
	InferenceTimeout string `toml:"inference_timeout"` // Timeout for generation requests (e.g., "120s")
}

// DeckConfig contains deck construction settings.
type DeckConfig struct {
	WeightsFile string `toml:"weights_file"` // Optional TOML file with strategy weight tables
	WatchFile   bool   `toml:"watch_file"`   // Reload the weights file on change
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8585,
		},
		Database: DatabaseConfig{
			Path:       "",
			StaleAfter: "168h",
		},
		Ollama: OllamaConfig{
			Enabled:          true,
			BaseURL:          "http://localhost:11434",
			Model:            "qwen3:8b",
			InferenceTimeout: "120s",
		},
		Deck: DeckConfig{
			WeightsFile: "",
			WatchFile:   true,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckforge")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns the
// default config if no file exists.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. Returns the
// default config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := time.ParseDuration(c.Database.StaleAfter); err != nil {
		return fmt.Errorf("invalid stale_after %q: %w", c.Database.StaleAfter, err)
	}

	if c.Ollama.Enabled {
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("ollama base_url required when ollama is enabled")
		}
		if c.Ollama.Model == "" {
			return fmt.Errorf("ollama model required when ollama is enabled")
		}
		if _, err := time.ParseDuration(c.Ollama.InferenceTimeout); err != nil {
			return fmt.Errorf("invalid inference_timeout %q: %w", c.Ollama.InferenceTimeout, err)
		}
	}

	return nil
}

// DatabasePath returns the configured catalog path, or the default
// location under the user's home directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckforge", "catalog.db"), nil
}

// GetStaleAfter returns the catalog staleness window as a duration.
func (c *Config) GetStaleAfter() (time.Duration, error) {
	return time.ParseDuration(c.Database.StaleAfter)
}

// GetInferenceTimeout returns the LLM inference timeout as a duration.
func (c *Config) GetInferenceTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Ollama.InferenceTimeout)
}
