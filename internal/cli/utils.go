// Package cli provides CLI utilities for Lumina.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/luminahq/lumina/internal/models"
	"github.com/luminahq/lumina/internal/vector"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "json":
		return OutputJSON, nil
	case "text", "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	writeSearchResultsText(w, response)
	return nil
}

// maxFilenameLen keeps one result per screen line; full names are in the
// JSON output.
const maxFilenameLen = 80

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", response.TotalFound, response.Query)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Similarity: %.1f%% (score %.4f)\n", i+1, result.SimilarityPercent, result.Score)
		fmt.Fprintf(w, "ID: %s\n", result.ID)
		if result.Filename != "" {
			fmt.Fprintf(w, "File: %s\n", Truncate(result.Filename, maxFilenameLen))
		}
		fmt.Fprintln(w)
	}
}

// WriteStats writes index statistics to w in the given format.
func WriteStats(w io.Writer, stats *vector.Stats, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Fprintf(w, "total_vectors:  %d\n", stats.TotalVectors)
	fmt.Fprintf(w, "dimension:      %d\n", stats.Dimension)
	for ns, count := range stats.Namespaces {
		fmt.Fprintf(w, "namespace %-12s %d\n", ns+":", count)
	}
	return nil
}

// WriteBatchResult writes a batch upload outcome to w, one line per file.
func WriteBatchResult(w io.Writer, result *models.BatchUploadResult) {
	fmt.Fprintf(w, "%s (%d uploaded, %d failed)\n", result.Message, result.TotalUploaded, result.TotalFailed)
	for _, id := range result.UploadedIDs {
		fmt.Fprintf(w, "  ok    %s\n", id)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(w, "  fail  %s: %s\n", f.Filename, f.Error)
	}
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
