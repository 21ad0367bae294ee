// Package service implements the orchestration core tying the embedding
// client and the vector store together.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/luminahq/lumina/internal/embedding"
	"github.com/luminahq/lumina/internal/models"
	"github.com/luminahq/lumina/internal/vector"
	"github.com/luminahq/lumina/pkg/utils"
	"go.uber.org/zap"
)

// ImageService orchestrates uploads, search, deletion and telemetry. It holds
// no mutable state beyond the construction timestamp; the embedder and store
// are shared, long-lived and safe for concurrent use.
type ImageService struct {
	embedder  embedding.Embedder
	store     vector.Store
	logger    *zap.Logger
	startTime time.Time
}

// NewImageService creates the service with its two clients.
func NewImageService(embedder embedding.Embedder, store vector.Store, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		embedder:  embedder,
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}

// newImageID generates an id with a short random hex suffix. Uniqueness is
// probabilistic; there is deliberately no lookup against existing ids.
func newImageID() string {
	id := uuid.New()
	return fmt.Sprintf("img_%x", id[:4])
}

// imageMetadata builds the metadata stored alongside an image vector.
func imageMetadata(filename string) map[string]interface{} {
	return map[string]interface{}{
		"type":      "image",
		"fileName":  filename,
		"timestamp": time.Now().Unix(),
	}
}

// UploadImage decodes, embeds and stores one image. When imageID is empty an
// id is generated. Embed-then-upsert is not atomic; a crash between the two
// leaves no trace, and a retried upload simply creates a new id.
func (s *ImageService) UploadImage(ctx context.Context, file models.FileUpload, imageID string) (*models.UploadResult, error) {
	if imageID == "" {
		imageID = newImageID()
	}

	img, err := embedding.DecodeImage(file.Data)
	if err != nil {
		return nil, &DecodeError{ImageID: imageID, Filename: file.Filename, Err: err}
	}

	vec, err := s.embedder.EmbedImage(ctx, img)
	if err != nil {
		return nil, &ExternalError{Op: "embed image", ImageID: imageID, Err: err}
	}

	item := vector.Item{ID: imageID, Vector: vec, Metadata: imageMetadata(file.Filename)}
	if err := s.store.Upsert(ctx, item, models.DefaultNamespace); err != nil {
		return nil, &ExternalError{Op: "store image", ImageID: imageID, Err: err}
	}

	s.logger.Info("image uploaded",
		zap.String("image_id", imageID),
		zap.String("filename", file.Filename),
	)
	return &models.UploadResult{
		Message:  "Image uploaded successfully",
		ImageID:  imageID,
		Filename: file.Filename,
	}, nil
}

// UploadBatch processes files independently and sequentially; a failure on
// one file is recorded and never aborts the rest. Partial success is the
// normal case, so the result is returned without an error.
func (s *ImageService) UploadBatch(ctx context.Context, files []models.FileUpload) *models.BatchUploadResult {
	result := &models.BatchUploadResult{
		UploadedIDs: []string{},
		Failed:      []*models.FailedUpload{},
	}
	for _, file := range files {
		res, err := s.UploadImage(ctx, file, "")
		if err != nil {
			s.logger.Warn("batch upload item failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, &models.FailedUpload{
				Filename: file.Filename,
				Error:    err.Error(),
			})
			continue
		}
		result.UploadedIDs = append(result.UploadedIDs, res.ImageID)
	}
	result.TotalUploaded = len(result.UploadedIDs)
	result.TotalFailed = len(result.Failed)
	result.Message = fmt.Sprintf("Uploaded %d images", result.TotalUploaded)
	return result
}

// Search embeds the query text and runs nearest-neighbor lookup. The request
// must already be validated; rejecting empty queries before any embedding
// call is the API layer's job.
func (s *ImageService) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	queryVec, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, &ExternalError{Op: "embed query", Err: err}
	}

	matches, err := s.store.Query(ctx, queryVec, req.Namespace, *req.TopK, "")
	if err != nil {
		return nil, &ExternalError{Op: "query index", Err: err}
	}

	results := make([]*models.SearchResult, 0, len(matches))
	for _, m := range matches {
		filename := "Unknown"
		if v, ok := m.Metadata["fileName"].(string); ok && v != "" {
			filename = v
		}
		results = append(results, &models.SearchResult{
			ID:                m.ID,
			Filename:          filename,
			Score:             m.Score,
			SimilarityPercent: utils.SimilarityPercent(m.Score),
		})
	}
	return &models.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalFound: len(results),
	}, nil
}

// Delete removes one image by id. Deleting an absent id succeeds.
func (s *ImageService) Delete(ctx context.Context, imageID, namespace string) (*models.DeleteResult, error) {
	if namespace == "" {
		namespace = models.DefaultNamespace
	}
	if err := s.store.DeleteByIDs(ctx, []string{imageID}, namespace); err != nil {
		return nil, &ExternalError{Op: "delete image", ImageID: imageID, Err: err}
	}
	s.logger.Info("image deleted", zap.String("image_id", imageID), zap.String("namespace", namespace))
	return &models.DeleteResult{Message: "Image deleted successfully", ImageID: imageID}, nil
}

// Stats passes through the vector store's aggregate snapshot.
func (s *ImageService) Stats(ctx context.Context) (*vector.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, &ExternalError{Op: "get stats", Err: err}
	}
	return stats, nil
}

// Telemetry reports service status. It never fails; when stats cannot be
// fetched the report degrades to status "error". EmbeddingService.Available
// only reflects that the client is constructed, not a live probe.
func (s *ImageService) Telemetry(ctx context.Context) *models.Telemetry {
	uptime := int64(time.Since(s.startTime).Seconds())
	t := &models.Telemetry{
		Status: "operational",
		EmbeddingService: models.EmbeddingTelemetry{
			Available: s.embedder != nil,
		},
		UptimeSeconds: uptime,
	}
	if s.embedder != nil {
		t.EmbeddingService.Model = s.embedder.Model()
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("telemetry stats failed", zap.Error(err))
		t.Status = "error"
		t.Error = err.Error()
		t.Database = models.DatabaseTelemetry{Connected: false, Namespaces: map[string]int{}}
		return t
	}
	t.Database = models.DatabaseTelemetry{
		Connected:    true,
		TotalVectors: stats.TotalVectors,
		Dimension:    stats.Dimension,
		Namespaces:   stats.Namespaces,
	}
	return t
}
