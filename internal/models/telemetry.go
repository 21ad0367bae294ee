package models

// DatabaseTelemetry describes the state of the vector database connection.
type DatabaseTelemetry struct {
	Connected    bool           `json:"connected"`
	TotalVectors int64          `json:"total_vectors"`
	Dimension    int            `json:"dimension"`
	Namespaces   map[string]int `json:"namespaces"`
}

// EmbeddingTelemetry describes the embedding client. Available reflects only
// that the client is constructed, not a live probe of the remote API.
type EmbeddingTelemetry struct {
	Available bool   `json:"available"`
	Model     string `json:"model,omitempty"`
}

// Telemetry is the full service status report.
type Telemetry struct {
	Status           string             `json:"status"`
	Error            string             `json:"error,omitempty"`
	Database         DatabaseTelemetry  `json:"database"`
	EmbeddingService EmbeddingTelemetry `json:"embedding_service"`
	UptimeSeconds    int64              `json:"uptime_seconds"`
}
