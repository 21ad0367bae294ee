// Package config provides configuration loading and structs for the Lumina server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig holds settings for the remote embedding API.
// APIKey is never read from the YAML file; it comes from the environment.
type EmbeddingConfig struct {
	Model        string `yaml:"model"`
	Dimensions   int    `yaml:"dimensions"`
	BaseURL      string `yaml:"base_url"`
	MaxImageSide int    `yaml:"max_image_side"`
	APIKey       string `yaml:"-"`
}

// VectorConfig holds settings for the managed vector database.
// APIKey is never read from the YAML file; it comes from the environment.
type VectorConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
	APIKey     string `yaml:"-"`
}

// Load reads and parses the config file at path, applies defaults, and pulls
// secrets from the environment. Returns an error if the file cannot be read
// or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// FromEnv builds a config entirely from defaults and environment variables,
// for running without a config file.
func FromEnv() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg
}

// applyEnv overlays environment variables onto cfg. Secrets only live here;
// the address override lets deployments skip the config file entirely.
func applyEnv(cfg *Config) {
	cfg.Embedding.APIKey = os.Getenv("COHERE_API_KEY")
	cfg.Vector.APIKey = os.Getenv("MILVUS_API_KEY")
	if addr := os.Getenv("MILVUS_ADDRESS"); addr != "" {
		cfg.Vector.Address = addr
	}
}

// Validate reports configuration that cannot possibly work.
func (c *Config) Validate() error {
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("COHERE_API_KEY is not set")
	}
	if c.Vector.Address == "" {
		return fmt.Errorf("vector database address is not set")
	}
	return nil
}
