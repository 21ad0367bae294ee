package models

import "testing"

func intPtr(n int) *int { return &n }

func TestSearchRequestValidate_defaults(t *testing.T) {
	r := &SearchRequest{Query: "a red bicycle"}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.TopK == nil || *r.TopK != DefaultTopK {
		t.Errorf("top_k: got %v, want %d", r.TopK, DefaultTopK)
	}
	if r.Namespace != DefaultNamespace {
		t.Errorf("namespace: got %q, want %q", r.Namespace, DefaultNamespace)
	}
}

func TestSearchRequestValidate_emptyQuery(t *testing.T) {
	r := &SearchRequest{}
	if err := r.Validate(); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSearchRequestValidate_topKBounds(t *testing.T) {
	cases := []struct {
		topK    int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{100, false},
		{101, true},
	}
	for _, c := range cases {
		r := &SearchRequest{Query: "q", TopK: intPtr(c.topK)}
		err := r.Validate()
		if c.wantErr && err == nil {
			t.Errorf("top_k=%d: expected error", c.topK)
		}
		if !c.wantErr && err != nil {
			t.Errorf("top_k=%d: unexpected error: %v", c.topK, err)
		}
	}
}

func TestSearchRequestValidate_explicitZeroIsNotOmitted(t *testing.T) {
	// An omitted top_k defaults; a present zero is out of range.
	omitted := &SearchRequest{Query: "q"}
	if err := omitted.Validate(); err != nil {
		t.Errorf("omitted top_k should default: %v", err)
	}
	zero := &SearchRequest{Query: "q", TopK: intPtr(0)}
	if err := zero.Validate(); err == nil {
		t.Error("explicit top_k=0 should be rejected")
	}
}
