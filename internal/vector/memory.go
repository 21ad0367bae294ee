package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store using brute-force cosine search.
// Suitable for tests and local development without a vector database.
type MemoryStore struct {
	dimensions int
	namespaces map[string]map[string]Item
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory store with the given dimension.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{
		dimensions: dimensions,
		namespaces: make(map[string]map[string]Item),
	}, nil
}

// EnsureReady is a no-op for the in-memory store.
func (m *MemoryStore) EnsureReady(ctx context.Context) error {
	return nil
}

// Upsert writes or overwrites one item.
func (m *MemoryStore) Upsert(ctx context.Context, item Item, namespace string) error {
	return m.UpsertBatch(ctx, []Item{item}, namespace)
}

// UpsertBatch writes items, keyed by id within the namespace.
func (m *MemoryStore) UpsertBatch(ctx context.Context, items []Item, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.namespaces[namespace]
	if ns == nil {
		ns = make(map[string]Item)
		m.namespaces[namespace] = ns
	}
	for _, item := range items {
		if len(item.Vector) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch for %q: got %d, expected %d", item.ID, len(item.Vector), m.dimensions)
		}
		vec := make([]float32, m.dimensions)
		copy(vec, item.Vector)
		meta := make(map[string]interface{}, len(item.Metadata))
		for k, v := range item.Metadata {
			meta[k] = v
		}
		ns[item.ID] = Item{ID: item.ID, Vector: vec, Metadata: meta}
	}
	return nil
}

// Query returns up to topK items by cosine similarity, descending.
func (m *MemoryStore) Query(ctx context.Context, vector []float32, namespace string, topK int, filter string) ([]Match, error) {
	if len(vector) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), m.dimensions)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns := m.namespaces[namespace]
	matches := make([]Match, 0, len(ns))
	for id, item := range ns {
		meta := make(map[string]interface{}, len(item.Metadata))
		for k, v := range item.Metadata {
			meta[k] = v
		}
		matches = append(matches, Match{ID: id, Score: cosine(vector, item.Vector), Metadata: meta})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteByIDs removes the named items; absent ids are ignored.
func (m *MemoryStore) DeleteByIDs(ctx context.Context, ids []string, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.namespaces[namespace]
	for _, id := range ids {
		delete(ns, id)
	}
	return nil
}

// Stats returns exact counts; unlike the remote store there is no lag.
func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &Stats{Dimension: m.dimensions, Namespaces: map[string]int{}}
	for name, ns := range m.namespaces {
		stats.Namespaces[name] = len(ns)
		stats.TotalVectors += int64(len(ns))
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
