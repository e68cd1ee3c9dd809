package driving

import (
	"context"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// DocumentService manages a user's ingested documents.
type DocumentService interface {
	// ListByOwner returns an owner's documents, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the concatenated content of all chunks.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns format-agnostic metadata for display.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Delete removes a document and all of its chunks.
	Delete(ctx context.Context, documentID string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// OwnerID identifies the owning user.
	OwnerID string

	// FileName is the original file name.
	FileName string

	// FileType is the MIME type of the source file.
	FileType string

	// SourceURI is the original location.
	SourceURI string

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// PageCount is the page count for paginated formats, zero otherwise.
	PageCount int

	// Summary is the generated summary, empty while pending.
	Summary string

	// SummaryReady is true once a summary has been written.
	SummaryReady bool

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}
