package domain

import "errors"

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrValidation signals rejected input (empty batch, empty document, empty text).
	ErrValidation = errors.New("validation failed")
	// ErrExtraction signals that no text could be extracted from a document.
	ErrExtraction = errors.New("text extraction failed")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrEmbeddingTimeout signals that an embedding call exceeded its deadline.
	ErrEmbeddingTimeout = errors.New("embedding timed out")
	// ErrStore signals a persistent store failure.
	ErrStore = errors.New("store error")
)
