package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Ingestion maps a duplicate (owner, file hash) pair onto this.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionFailed indicates text extraction from a source file
	// failed. Ingestion recovers by storing the extraction placeholder;
	// this error is logged, never surfaced to callers.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding model is not
	// configured or failed to load. Ingestion and retrieval require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates no generation provider is configured.
	// Question answering is disabled without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSummaryFailed indicates every provider in the summarisation
	// chain failed. The document's summary stays unset; ingestion is
	// unaffected.
	ErrSummaryFailed = errors.New("summarisation failed")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
