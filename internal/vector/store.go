// Package vector provides access to the external vector database holding
// image embeddings.
package vector

import "context"

// UpsertBatchSize is the number of items written per call to the remote
// database, respecting its payload limits.
const UpsertBatchSize = 100

// Item is one (id, vector, metadata) triple to be stored.
type Item struct {
	ID       string
	Vector   []float32
	Metadata map[string]interface{}
}

// Match is a single nearest-neighbor hit. Score is the index metric's
// similarity (cosine, in [-1, 1]); Metadata is a snapshot copied from the
// stored item at query time.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]interface{}
}

// Stats is a read-only aggregate snapshot of the index. It is eventually
// consistent; recent writes may not be reflected.
type Stats struct {
	TotalVectors int64          `json:"total_vectors"`
	Dimension    int            `json:"dimension"`
	Namespaces   map[string]int `json:"namespaces"`
}

// Store is a client for one logical vector index with a fixed dimensionality.
// Items live in namespaces, created implicitly on first write. Implementations
// are safe for concurrent use; all mutable state lives in the remote service.
type Store interface {
	// EnsureReady creates the index if it does not exist and waits until the
	// remote reports it ready. Idempotent. It does not verify the dimension
	// of a pre-existing index; that invariant is the operator's.
	EnsureReady(ctx context.Context) error
	// Upsert writes or overwrites one item, at-least-once.
	Upsert(ctx context.Context, item Item, namespace string) error
	// UpsertBatch writes many items in chunks of UpsertBatchSize. A failing
	// chunk aborts the remaining chunks but completed chunks are not rolled
	// back; there is no transactional guarantee across chunks.
	UpsertBatch(ctx context.Context, items []Item, namespace string) error
	// Query returns up to topK nearest items, descending by similarity.
	// filter is an optional metadata filter expression; empty means none.
	Query(ctx context.Context, vector []float32, namespace string, topK int, filter string) ([]Match, error)
	// DeleteByIDs removes the named items. Deleting an absent id is not an error.
	DeleteByIDs(ctx context.Context, ids []string, namespace string) error
	// Stats returns the aggregate snapshot.
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}
