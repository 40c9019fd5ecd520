// Package config loads the service configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rebuildintel/rebuild-go/internal/domain/usecases"
)

// Config holds all rebuild service configuration.
type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Pipeline tuning constants
	Engine usecases.EngineConfig `yaml:"engine"`

	// Narrative (engineering brief) generation
	Narrative NarrativeConfig `yaml:"narrative"`

	// Report archive storage
	Archive ArchiveConfig `yaml:"archive"`

	// Drop-directory intake
	Intake IntakeConfig `yaml:"intake"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NarrativeConfig configures the OpenAI-compatible narrative service.
type NarrativeConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// ArchiveConfig configures report persistence.
type ArchiveConfig struct {
	Driver   string `yaml:"driver"` // sqlite or memory
	DataPath string `yaml:"data_path"`
}

// IntakeConfig configures the submission drop directory.
type IntakeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
		},
		Engine: usecases.DefaultEngineConfig(),
		Narrative: NarrativeConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4.1-mini",
		},
		Archive: ArchiveConfig{
			Driver:   "sqlite",
			DataPath: "./data",
		},
		Intake: IntakeConfig{
			Enabled: false,
			Dir:     "./intake",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides on top of
// whatever the file set.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Narrative.APIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.Narrative.Model = model
	}
}
