package embedding

import (
	"context"
	"hash/fnv"
	"image"
	"math"
	"sync/atomic"

	"github.com/luminahq/lumina/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests. The same text or image
// always gets the same unit-length embedding, so cosine scores are stable.
type MockEmbedder struct {
	dimensions int
	// Calls counts embedding API calls, letting tests assert that validation
	// failures never reach the embedder.
	Calls atomic.Int64
}

// NewMockEmbedder returns an embedder producing deterministic embeddings of
// the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 1536
	}
	return &MockEmbedder{dimensions: dimensions}
}

// EmbedText returns a deterministic embedding based on the text hash.
func (e *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.Calls.Add(1)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return e.fromSeed(h.Sum64()), nil
}

// EmbedImage returns a deterministic embedding based on image dimensions and
// a sample of pixel values.
func (e *MockEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	e.Calls.Add(1)
	return e.fromSeed(imageSeed(img)), nil
}

// EmbedImageBatch calls EmbedImage for each image, preserving order.
func (e *MockEmbedder) EmbedImageBatch(ctx context.Context, imgs []image.Image) ([][]float32, error) {
	vectors := make([][]float32, len(imgs))
	for i, img := range imgs {
		v, err := e.EmbedImage(ctx, img)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Model returns a fixed identifier for the mock.
func (e *MockEmbedder) Model() string {
	return "mock-embedder"
}

func (e *MockEmbedder) fromSeed(seed uint64) []float32 {
	emb := make([]float32, e.dimensions)
	for i := range emb {
		emb[i] = float32(math.Sin(float64(seed%104729)*float64(i+1)) * 0.1)
	}
	utils.NormalizeL2(emb)
	return emb
}

func imageSeed(img image.Image) uint64 {
	b := img.Bounds()
	h := fnv.New64a()
	for y := b.Min.Y; y < b.Max.Y; y += 16 {
		for x := b.Min.X; x < b.Max.X; x += 16 {
			r, g, bl, _ := img.At(x, y).RGBA()
			_, _ = h.Write([]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8)})
		}
	}
	_, _ = h.Write([]byte{byte(b.Dx()), byte(b.Dy())})
	return h.Sum64()
}
