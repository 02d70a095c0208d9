// Package config loads the tool configuration from an optional YAML file
// with environment-variable fallbacks for credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openpredict/evidence/models"
)

// Config is the full tool configuration.
type Config struct {
	OpenAIAPIKey   string `yaml:"openai_api_key"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	GoogleAPIKey   string `yaml:"google_api_key"`
	GoogleEngineID string `yaml:"google_engine_id"`

	CompletionModel string `yaml:"completion_model"`
	EmbeddingModel  string `yaml:"embedding_model"`

	URLDenylist []string `yaml:"url_denylist"`
	StorePath   string   `yaml:"store_path"`

	Research models.ResearchConfig `yaml:"research"`
}

// Load reads the config file when path is non-empty, then applies env
// fallbacks and model defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.GoogleEngineID == "" {
		cfg.GoogleEngineID = os.Getenv("GOOGLE_ENGINE_ID")
	}
	if cfg.CompletionModel == "" {
		cfg.CompletionModel = "gpt-3.5-turbo"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	cfg.Research.Normalize()

	return cfg, nil
}
