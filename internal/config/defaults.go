package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embed-v4.0"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.cohere.com"
	}
	if cfg.Embedding.MaxImageSide == 0 {
		cfg.Embedding.MaxImageSide = 512
	}
	if cfg.Vector.Address == "" {
		cfg.Vector.Address = "localhost:19530"
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "lumina"
	}
}
