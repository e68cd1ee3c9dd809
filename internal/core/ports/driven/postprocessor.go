package driven

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// PostProcessor is one stage of the chunk production pipeline. A
// creating stage (the chunker) receives nil chunks and returns new
// ones; a transforming stage (the redactor) rewrites what it
// receives.
type PostProcessor interface {
	// Name identifies the stage in configuration and errors.
	Name() string

	// Process produces or transforms chunks for doc.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a document through an ordered list of
// stages and returns the final chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
