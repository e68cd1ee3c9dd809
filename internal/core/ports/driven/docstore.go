package driven

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage, with a memory implementation
// for tests and ephemeral runs.
type DocumentStore interface {
	// CreateDocument stores a new document. The summary starts unset.
	// Returns domain.ErrAlreadyExists when the owner already has a
	// document with the same file hash.
	CreateDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByHash retrieves an owner's document by content hash.
	// Returns domain.ErrNotFound when absent.
	FindByHash(ctx context.Context, ownerID, fileHash string) (*domain.Document, error)

	// UpdateExtractedText replaces the document's extracted text.
	UpdateExtractedText(ctx context.Context, id, text string) error

	// SaveChunks stores a document's chunk set in one transaction.
	// Indices must be dense 0..N-1 for a single document; a partially
	// visible chunk set is impossible.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ChunkCount returns the number of stored chunks for a document.
	// A non-zero count is the ingestion completion signal.
	ChunkCount(ctx context.Context, documentID string) (int, error)

	// GetChunks retrieves all chunks for a document in index order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ChunksByOwner retrieves every chunk across an owner's documents.
	// This is the retrieval feed for question answering.
	ChunksByOwner(ctx context.Context, ownerID string) ([]domain.Chunk, error)

	// UpdateSummary sets the document's summary. Overwrites are
	// idempotent and last-writer-wins by call order. Empty summaries
	// are rejected with domain.ErrInvalidInput; a stored summary can
	// never revert to unset.
	UpdateSummary(ctx context.Context, documentID, summary string) error

	// ListByOwner returns an owner's documents, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)

	// ListMissingSummaries returns documents whose summary is still
	// unset, oldest first, for the retry sweeper.
	ListMissingSummaries(ctx context.Context, limit int) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
