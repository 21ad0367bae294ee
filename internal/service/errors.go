package service

import "fmt"

// DecodeError indicates uploaded bytes could not be decoded as an image.
// ImageID is the id the upload would have stored under, so a failure can
// still be correlated with the attempted operation.
type DecodeError struct {
	ImageID  string
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %q: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExternalError indicates a call to the embedding API or the vector database
// failed. ImageID carries the id of the affected item when one exists, so
// callers can correlate the failure with the operation that caused it.
type ExternalError struct {
	Op      string
	ImageID string
	Err     error
}

func (e *ExternalError) Error() string {
	if e.ImageID != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.ImageID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
