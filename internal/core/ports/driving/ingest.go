package driving

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// IngestService runs the document ingestion pipeline: extract, chunk,
// embed, store, and detach summarisation.
type IngestService interface {
	// IngestFile ingests a file from the local filesystem.
	IngestFile(ctx context.Context, ownerID, path string) (*domain.IngestResult, error)

	// Ingest ingests an in-memory source file (uploads, watch events).
	Ingest(ctx context.Context, file *domain.SourceFile) (*domain.IngestResult, error)

	// Status reports the processing state of a document.
	Status(ctx context.Context, documentID string) (*domain.IngestStatus, error)

	// Wait blocks until detached work (summarisation) has finished.
	// Used for graceful shutdown and tests.
	Wait()
}
