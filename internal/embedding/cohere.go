package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.cohere.com"
	defaultModel   = "embed-v4.0"

	inputTypeQuery = "search_query"
	inputTypeImage = "image"
)

// CohereParams configures a CohereEmbedder. APIKey is required; zero values
// elsewhere fall back to defaults.
type CohereParams struct {
	APIKey       string
	Model        string
	BaseURL      string
	Dimensions   int
	MaxImageSide int
}

// CohereEmbedder calls the Cohere v2 embed endpoint. It holds no mutable
// state beyond configuration and is safe for concurrent use.
type CohereEmbedder struct {
	apiKey       string
	model        string
	baseURL      string
	dimensions   int
	maxImageSide int
	httpClient   *http.Client
}

// NewCohereEmbedder creates a Cohere embedding client.
func NewCohereEmbedder(p CohereParams) *CohereEmbedder {
	if p.Model == "" {
		p.Model = defaultModel
	}
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.Dimensions <= 0 {
		p.Dimensions = 1536
	}
	if p.MaxImageSide <= 0 {
		p.MaxImageSide = DefaultMaxImageSide
	}
	return &CohereEmbedder{
		apiKey:       p.APIKey,
		model:        p.Model,
		baseURL:      p.BaseURL,
		dimensions:   p.Dimensions,
		maxImageSide: p.MaxImageSide,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

type embedRequest struct {
	Model          string   `json:"model"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
	Texts          []string `json:"texts,omitempty"`
	Images         []string `json:"images,omitempty"`
}

type embedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

// EmbedText embeds a search query string.
func (e *CohereEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	vectors, err := e.embed(ctx, embedRequest{
		Model:          e.model,
		InputType:      inputTypeQuery,
		EmbeddingTypes: []string{"float"},
		Texts:          []string{text},
	}, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedImage embeds a single decoded image.
func (e *CohereEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	vectors, err := e.EmbedImageBatch(ctx, []image.Image{img})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedImageBatch embeds a sequence of images in one API call, preserving
// input order in the output. The caller keeps batches within MaxBatchSize.
func (e *CohereEmbedder) EmbedImageBatch(ctx context.Context, imgs []image.Image) ([][]float32, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("cannot embed an empty image batch")
	}
	uris := make([]string, len(imgs))
	for i, img := range imgs {
		uri, err := imageDataURI(img, e.maxImageSide)
		if err != nil {
			return nil, err
		}
		uris[i] = uri
	}
	return e.embed(ctx, embedRequest{
		Model:          e.model,
		InputType:      inputTypeImage,
		EmbeddingTypes: []string{"float"},
		Images:         uris,
	}, len(imgs))
}

// embed performs one call to the v2 embed endpoint and checks that the
// response carries the expected number of float vectors.
func (e *CohereEmbedder) embed(ctx context.Context, reqBody embedRequest, want int) ([][]float32, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v2/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(out.Embeddings.Float) != want {
		return nil, fmt.Errorf("embedding API returned %d vectors, expected %d", len(out.Embeddings.Float), want)
	}
	return out.Embeddings.Float, nil
}

// Dimensions returns the configured embedding dimension.
func (e *CohereEmbedder) Dimensions() int {
	return e.dimensions
}

// Model returns the embedding model identifier.
func (e *CohereEmbedder) Model() string {
	return e.model
}
