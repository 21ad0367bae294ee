package models

import "fmt"

// Default and maximum values for search requests.
const (
	DefaultTopK      = 10
	MaxTopK          = 100
	DefaultNamespace = "images"
)

// SearchRequest represents a search request against the image index. TopK is
// a pointer so an omitted field (take the default) is distinguishable from an
// explicit zero (out of range).
type SearchRequest struct {
	Query     string `json:"query"`
	TopK      *int   `json:"top_k,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// Validate checks the request and fills in defaults. It returns an error for
// an empty query or a top_k outside [1, MaxTopK]; the server maps that error
// to a 400 before any embedding call is made. After a nil error TopK is
// non-nil.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	if r.TopK == nil {
		d := DefaultTopK
		r.TopK = &d
	}
	if *r.TopK < 1 || *r.TopK > MaxTopK {
		return fmt.Errorf("top_k must be between 1 and %d", MaxTopK)
	}
	if r.Namespace == "" {
		r.Namespace = DefaultNamespace
	}
	return nil
}
