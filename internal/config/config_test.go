package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Port != 8585 {
		t.Errorf("Server.Port = %d, want 8585", config.Server.Port)
	}
	if config.Ollama.BaseURL == "" {
		t.Error("Ollama.BaseURL is empty")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	config, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if config.Server.Port != DefaultConfig().Server.Port {
		t.Errorf("missing file should yield defaults, got port %d", config.Server.Port)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
host = "0.0.0.0"
port = 9000

[ollama]
enabled = false

[deck]
weights_file = "/etc/deckforge/weights.toml"
watch_file = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if config.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q", config.Server.Host)
	}
	if config.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", config.Server.Port)
	}
	if config.Ollama.Enabled {
		t.Error("Ollama.Enabled = true, want false")
	}
	if config.Deck.WeightsFile != "/etc/deckforge/weights.toml" {
		t.Errorf("Deck.WeightsFile = %q", config.Deck.WeightsFile)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not toml ==="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "bad stale_after",
			mutate:  func(c *Config) { c.Database.StaleAfter = "soon" },
			wantErr: true,
		},
		{
			name:    "ollama enabled without model",
			mutate:  func(c *Config) { c.Ollama.Model = "" },
			wantErr: true,
		},
		{
			name: "ollama disabled skips ollama checks",
			mutate: func(c *Config) {
				c.Ollama.Enabled = false
				c.Ollama.Model = ""
				c.Ollama.InferenceTimeout = "bogus"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetStaleAfter(t *testing.T) {
	config := DefaultConfig()
	d, err := config.GetStaleAfter()
	if err != nil {
		t.Fatalf("GetStaleAfter() error = %v", err)
	}
	if d.Hours() != 168 {
		t.Errorf("GetStaleAfter() = %v, want 168h", d)
	}
}
