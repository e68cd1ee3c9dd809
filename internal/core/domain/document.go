package domain

import "time"

// Document represents an ingested medical document owned by a user.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the user this document belongs to.
	// Every read path is scoped by owner.
	OwnerID string

	// SourceURI is the original location (file path, upload name, etc).
	SourceURI string

	// FileName is the original file name as provided at ingestion.
	FileName string

	// FileType is the MIME type of the source file.
	FileType string

	// FileHash is the sha256 hex digest of the source bytes.
	// Used to detect duplicate ingestion per owner.
	FileHash string

	// ExtractedText is the full text content after extraction.
	// Extraction failures leave the recovery placeholder here, never
	// an empty string, so a document is always in a consistent state.
	ExtractedText string

	// Summary is the AI-generated summary. Nil until the summarisation
	// chain succeeds; once set it is only ever replaced by another
	// non-empty summary.
	Summary *string

	// PageCount is the number of pages for paginated formats, 0 otherwise.
	PageCount int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// HasSummary reports whether a summary has been generated.
func (d *Document) HasSummary() bool {
	return d.Summary != nil && *d.Summary != ""
}

// Chunk represents a token-bounded retrieval unit within a document.
// Documents are split into chunks for embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// OwnerID mirrors the parent document's owner for scoped retrieval.
	OwnerID string

	// Index is the ordinal position within the document, dense from 0.
	Index int

	// Content is the text content of this chunk.
	Content string

	// TokenCount is the token count of Content under the active counter.
	TokenCount int

	// Embedding is the L2-normalised vector representation.
	Embedding []float32
}

// ExtractionPlaceholder is stored as a document's text when extraction
// fails or yields nothing readable. Ingestion still completes; the
// placeholder is chunked and embedded like any other content.
const ExtractionPlaceholder = "No readable text could be extracted from this document."
