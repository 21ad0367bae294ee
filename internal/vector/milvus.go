package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"go.uber.org/zap"
)

// Field names for the image collection.
const (
	fieldID        = "id"
	fieldFileName  = "file_name"
	fieldType      = "type"
	fieldMetadata  = "metadata"
	fieldCreatedAt = "created_at"
	fieldVector    = "vector"
)

const defaultPartition = "_default"

// MilvusStore implements Store against a Milvus deployment (self-hosted or
// managed). Namespaces map to partitions of a single collection.
type MilvusStore struct {
	client     *milvusclient.Client
	collection string
	dimensions int
	logger     *zap.Logger
}

// MilvusParams configures a MilvusStore. APIKey is empty for unauthenticated
// deployments.
type MilvusParams struct {
	Address    string
	APIKey     string
	Collection string
	Dimensions int
	Logger     *zap.Logger
}

// NewMilvusStore connects to Milvus. It does not create the collection; call
// EnsureReady before the first write.
func NewMilvusStore(ctx context.Context, p MilvusParams) (*MilvusStore, error) {
	if p.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: p.Address,
		APIKey:  p.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}
	return &MilvusStore{
		client:     c,
		collection: p.Collection,
		dimensions: p.Dimensions,
		logger:     p.Logger,
	}, nil
}

// EnsureReady creates the collection with a cosine HNSW index if it does not
// exist, then loads it and waits until the load completes. Idempotent. It
// does not cross-check the dimension of an existing collection.
func (s *MilvusStore) EnsureReady(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !exists {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Image embeddings for semantic search",
			Fields: []*entity.Field{
				{
					Name:       fieldID,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{"max_length": "255"},
				},
				{
					Name:       fieldFileName,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "1024"},
				},
				{
					Name:       fieldType,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "32"},
				},
				{
					Name:     fieldMetadata,
					DataType: entity.FieldTypeJSON,
				},
				{
					Name:     fieldCreatedAt,
					DataType: entity.FieldTypeInt64,
				},
				{
					Name:       fieldVector,
					DataType:   entity.FieldTypeFloatVector,
					TypeParams: map[string]string{"dim": fmt.Sprintf("%d", s.dimensions)},
				},
			},
		}

		createOpt := milvusclient.NewCreateCollectionOption(s.collection, schema)
		if err := s.client.CreateCollection(ctx, createOpt); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx := index.NewHNSWIndex(entity.COSINE, 16, 200)
		indexOpt := milvusclient.NewCreateIndexOption(s.collection, fieldVector, idx)
		if _, err := s.client.CreateIndex(ctx, indexOpt); err != nil {
			return fmt.Errorf("failed to create vector index: %w", err)
		}
		s.logger.Info("created collection", zap.String("collection", s.collection), zap.Int("dimensions", s.dimensions))
	}

	task, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := task.Await(ctx); err != nil {
		return fmt.Errorf("collection did not become ready: %w", err)
	}
	return nil
}

// partitionExists reports whether the namespace has a backing partition yet.
// The default partition always exists.
func (s *MilvusStore) partitionExists(ctx context.Context, namespace string) (bool, error) {
	if namespace == "" || namespace == defaultPartition {
		return true, nil
	}
	exists, err := s.client.HasPartition(ctx, milvusclient.NewHasPartitionOption(s.collection, namespace))
	if err != nil {
		return false, fmt.Errorf("failed to check partition %q: %w", namespace, err)
	}
	return exists, nil
}

// ensurePartition creates the partition backing a namespace on first write.
func (s *MilvusStore) ensurePartition(ctx context.Context, namespace string) error {
	exists, err := s.partitionExists(ctx, namespace)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.client.CreatePartition(ctx, milvusclient.NewCreatePartitionOption(s.collection, namespace)); err != nil {
		return fmt.Errorf("failed to create partition %q: %w", namespace, err)
	}
	return nil
}

// Upsert writes or overwrites one item in the given namespace.
func (s *MilvusStore) Upsert(ctx context.Context, item Item, namespace string) error {
	return s.UpsertBatch(ctx, []Item{item}, namespace)
}

// UpsertBatch writes items in chunks of UpsertBatchSize. A failing chunk
// aborts the remaining chunks; completed chunks stay written.
func (s *MilvusStore) UpsertBatch(ctx context.Context, items []Item, namespace string) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.ensurePartition(ctx, namespace); err != nil {
		return err
	}
	for start := 0; start < len(items); start += UpsertBatchSize {
		end := start + UpsertBatchSize
		if end > len(items) {
			end = len(items)
		}
		if err := s.upsertChunk(ctx, items[start:end], namespace); err != nil {
			return fmt.Errorf("batch chunk starting at %d failed: %w", start, err)
		}
	}
	return nil
}

func (s *MilvusStore) upsertChunk(ctx context.Context, items []Item, namespace string) error {
	n := len(items)
	ids := make([]string, n)
	fileNames := make([]string, n)
	types := make([]string, n)
	metadatas := make([][]byte, n)
	createdAts := make([]int64, n)
	vectors := make([][]float32, n)

	for i, item := range items {
		if len(item.Vector) != s.dimensions {
			return fmt.Errorf("vector dimension mismatch for %q: got %d, expected %d", item.ID, len(item.Vector), s.dimensions)
		}
		ids[i] = item.ID
		fileNames[i] = stringField(item.Metadata, "fileName")
		types[i] = stringField(item.Metadata, "type")
		createdAts[i] = int64Field(item.Metadata, "timestamp")
		vectors[i] = item.Vector

		meta := item.Metadata
		if meta == nil {
			meta = map[string]interface{}{}
		}
		blob, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %q: %w", item.ID, err)
		}
		metadatas[i] = blob
	}

	opt := milvusclient.NewColumnBasedInsertOption(s.collection,
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnVarChar(fieldFileName, fileNames),
		column.NewColumnVarChar(fieldType, types),
		column.NewColumnJSONBytes(fieldMetadata, metadatas),
		column.NewColumnInt64(fieldCreatedAt, createdAts),
		column.NewColumnFloatVector(fieldVector, s.dimensions, vectors),
	)
	if namespace != "" {
		opt = opt.WithPartition(namespace)
	}
	if _, err := s.client.Upsert(ctx, opt); err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

// Query returns up to topK nearest items by cosine similarity, descending.
func (s *MilvusStore) Query(ctx context.Context, vector []float32, namespace string, topK int, filter string) ([]Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}
	// A namespace nobody has written to has no partition yet; that is an
	// empty result, not an error.
	exists, err := s.partitionExists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []Match{}, nil
	}
	opt := milvusclient.NewSearchOption(s.collection, topK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(fieldVector).
		WithOutputFields(fieldFileName, fieldType, fieldMetadata, fieldCreatedAt)
	if namespace != "" {
		opt = opt.WithPartitions(namespace)
	}
	if filter != "" {
		opt = opt.WithFilter(filter)
	}

	results, err := s.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return []Match{}, nil
	}

	rs := results[0]
	matches := make([]Match, 0, rs.ResultCount)
	metaCol, _ := rs.GetColumn(fieldMetadata).(*column.ColumnJSONBytes)
	for i := 0; i < rs.ResultCount; i++ {
		id, err := rs.IDs.GetAsString(i)
		if err != nil {
			continue
		}
		metadata := map[string]interface{}{}
		if metaCol != nil && i < len(metaCol.Data()) {
			_ = json.Unmarshal(metaCol.Data()[i], &metadata)
		}
		score := float64(0)
		if i < len(rs.Scores) {
			score = float64(rs.Scores[i])
		}
		matches = append(matches, Match{ID: id, Score: score, Metadata: metadata})
	}
	return matches, nil
}

// DeleteByIDs removes the named items. Absent ids are silently ignored by
// the remote, so deletion is idempotent.
func (s *MilvusStore) DeleteByIDs(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		return nil
	}
	// Deleting from a namespace that was never written to is a no-op.
	exists, err := s.partitionExists(ctx, namespace)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	opt := milvusclient.NewDeleteOption(s.collection).WithStringIDs(fieldID, ids)
	if namespace != "" {
		opt = opt.WithPartition(namespace)
	}
	if _, err := s.client.Delete(ctx, opt); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// Stats returns vector counts for the collection and each namespace. Counts
// lag recent writes; the remote service is eventually consistent.
func (s *MilvusStore) Stats(ctx context.Context) (*Stats, error) {
	collStats, err := s.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(s.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to get collection stats: %w", err)
	}
	stats := &Stats{
		TotalVectors: rowCount(collStats),
		Dimension:    s.dimensions,
		Namespaces:   map[string]int{},
	}

	partitions, err := s.client.ListPartitions(ctx, milvusclient.NewListPartitionOption(s.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	for _, p := range partitions {
		if p == defaultPartition {
			continue
		}
		pStats, err := s.client.GetPartitionStats(ctx, milvusclient.NewGetPartitionStatsOption(s.collection, p))
		if err != nil {
			return nil, fmt.Errorf("failed to get stats for partition %q: %w", p, err)
		}
		stats.Namespaces[p] = int(rowCount(pStats))
	}
	return stats, nil
}

// Close closes the connection to Milvus.
func (s *MilvusStore) Close() error {
	return s.client.Close(context.Background())
}

func rowCount(stats map[string]string) int64 {
	n, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func stringField(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(metadata map[string]interface{}, key string) int64 {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
