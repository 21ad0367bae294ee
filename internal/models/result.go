// Package models defines request, response and result types shared by the
// service, the HTTP API and the CLI.
package models

// SearchResult is a single search hit. Score is the raw cosine similarity in
// [-1, 1]; SimilarityPercent is its linear 0-100 mapping.
type SearchResult struct {
	ID                string  `json:"id"`
	Filename          string  `json:"filename"`
	Score             float64 `json:"score"`
	SimilarityPercent float64 `json:"similarity_percent"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query      string          `json:"query"`
	Results    []*SearchResult `json:"results"`
	TotalFound int             `json:"total_found"`
}
