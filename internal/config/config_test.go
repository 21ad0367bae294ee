package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
vector:
  address: "milvus.internal:19530"
  collection: "photos"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Vector.Collection != "photos" {
		t.Errorf("collection: got %q", cfg.Vector.Collection)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
	if cfg.Embedding.Model != "embed-v4.0" {
		t.Errorf("model: got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.MaxImageSide != 512 {
		t.Errorf("max_image_side: got %d", cfg.Embedding.MaxImageSide)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestLoad_envSecrets(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "co-test-key")
	t.Setenv("MILVUS_API_KEY", "mv-test-key")
	t.Setenv("MILVUS_ADDRESS", "env.milvus:19530")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
vector:
  address: "file.milvus:19530"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Embedding.APIKey != "co-test-key" {
		t.Errorf("embedding api key: got %q", cfg.Embedding.APIKey)
	}
	if cfg.Vector.APIKey != "mv-test-key" {
		t.Errorf("vector api key: got %q", cfg.Vector.APIKey)
	}
	if cfg.Vector.Address != "env.milvus:19530" {
		t.Errorf("address: env should win over file, got %q", cfg.Vector.Address)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "")
	cfg := FromEnv()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when COHERE_API_KEY is unset")
	}
	t.Setenv("COHERE_API_KEY", "k")
	cfg = FromEnv()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
