// Package embedding provides text and image embeddings via the Cohere API.
package embedding

import (
	"context"
	"image"
)

// MaxBatchSize is the number of images sent per embedding API call that is
// known to be safe. The remote service accepts more; callers chunk to this.
const MaxBatchSize = 50

// Embedder produces vector embeddings for text and images. Text and image
// embeddings share one dimensionality so they are comparable in the same index.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, img image.Image) ([]float32, error)
	EmbedImageBatch(ctx context.Context, imgs []image.Image) ([][]float32, error)
	Dimensions() int
	Model() string
}
