package driven

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// ExtractorRegistry selects the appropriate extractor for a file.
// It maintains a priority-ordered list of extractors and dispatches
// based on MIME type.
type ExtractorRegistry interface {
	// Extract pulls text from a source file using the best matching
	// extractor. Returns domain.ErrUnsupportedType when no extractor
	// handles the MIME type.
	Extract(ctx context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
