package driven

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// Extractor pulls plain text out of a source file.
// Each extractor handles specific MIME types (e.g. PDF, plain text).
// Extractors may return near-empty text for scanned or image-only
// files; the ingestion pipeline tolerates that and substitutes the
// placeholder, so an extractor should only error on genuinely broken
// input (corrupt file, undecodable bytes).
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract pulls text from the file.
	Extract(ctx context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error)
}
