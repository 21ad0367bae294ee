package embedding

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeEmbedAPI returns a test server that mimics the v2 embed endpoint and
// records the last request body.
func fakeEmbedAPI(t *testing.T, dims int, lastReq *embedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/embed" {
			t.Errorf("path: got %q, want /v2/embed", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization: got %q", got)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		*lastReq = req
		n := len(req.Texts) + len(req.Images)
		vectors := make([][]float32, n)
		for i := range vectors {
			vectors[i] = make([]float32, dims)
			vectors[i][0] = float32(i + 1)
		}
		var out embedResponse
		out.Embeddings.Float = vectors
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}))
}

func newTestEmbedder(baseURL string) *CohereEmbedder {
	return NewCohereEmbedder(CohereParams{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Dimensions: 8,
	})
}

func TestCohereEmbedText(t *testing.T) {
	var lastReq embedRequest
	srv := fakeEmbedAPI(t, 8, &lastReq)
	defer srv.Close()

	e := newTestEmbedder(srv.URL)
	vec, err := e.EmbedText(context.Background(), "a bearded man")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 8 {
		t.Errorf("vector length: got %d, want 8", len(vec))
	}
	if lastReq.InputType != "search_query" {
		t.Errorf("input_type: got %q, want search_query", lastReq.InputType)
	}
	if len(lastReq.Texts) != 1 || lastReq.Texts[0] != "a bearded man" {
		t.Errorf("texts: got %v", lastReq.Texts)
	}
	if len(lastReq.EmbeddingTypes) != 1 || lastReq.EmbeddingTypes[0] != "float" {
		t.Errorf("embedding_types: got %v", lastReq.EmbeddingTypes)
	}
}

func TestCohereEmbedText_empty(t *testing.T) {
	e := newTestEmbedder("http://localhost:1")
	if _, err := e.EmbedText(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestCohereEmbedImage(t *testing.T) {
	var lastReq embedRequest
	srv := fakeEmbedAPI(t, 8, &lastReq)
	defer srv.Close()

	e := newTestEmbedder(srv.URL)
	vec, err := e.EmbedImage(context.Background(), testImage(640, 480))
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 8 {
		t.Errorf("vector length: got %d", len(vec))
	}
	if lastReq.InputType != "image" {
		t.Errorf("input_type: got %q, want image", lastReq.InputType)
	}
	if len(lastReq.Images) != 1 {
		t.Fatalf("images: got %d, want 1", len(lastReq.Images))
	}
	if !strings.HasPrefix(lastReq.Images[0], "data:image/jpeg;base64,") {
		t.Error("image was not sent as a jpeg data URI")
	}
}

func TestCohereEmbedImageBatch_preservesOrder(t *testing.T) {
	var lastReq embedRequest
	srv := fakeEmbedAPI(t, 8, &lastReq)
	defer srv.Close()

	e := newTestEmbedder(srv.URL)
	imgs := []image.Image{testImage(32, 32), testImage(48, 48), testImage(64, 64)}
	vectors, err := e.EmbedImageBatch(context.Background(), imgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("vectors: got %d, want 3", len(vectors))
	}
	// The fake marks each vector with its 1-based position.
	for i, v := range vectors {
		if v[0] != float32(i+1) {
			t.Errorf("vector %d out of order: marker %f", i, v[0])
		}
	}
	if len(lastReq.Images) != 3 {
		t.Errorf("images in one call: got %d, want 3", len(lastReq.Images))
	}
}

func TestCohereEmbed_apiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := newTestEmbedder(srv.URL)
	_, err := e.EmbedText(context.Background(), "query")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error should carry status: %v", err)
	}
}

func TestCohereEmbed_malformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":{"float":[]}}`))
	}))
	defer srv.Close()

	e := newTestEmbedder(srv.URL)
	if _, err := e.EmbedText(context.Background(), "query"); err == nil {
		t.Error("expected error when response vector count does not match input")
	}
}

func TestMockEmbedder_deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	a, _ := e.EmbedText(context.Background(), "cat")
	b, _ := e.EmbedText(context.Background(), "cat")
	c, _ := e.EmbedText(context.Background(), "dog")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text produced different embeddings")
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
	if e.Calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", e.Calls.Load())
	}
}
