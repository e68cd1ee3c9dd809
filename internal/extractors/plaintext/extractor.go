// Package plaintext extracts text from plain text and markdown files.
package plaintext

import (
	"context"
	"fmt"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text formats. The bytes are the text; it
// only strips a UTF-8 BOM and normalises line endings.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
		"text/csv",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract passes the file content through as text.
func (e *Extractor) Extract(_ context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file must not be nil", domain.ErrInvalidInput)
	}

	text := string(file.Content)
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return &domain.ExtractionResult{
		Text: text,
	}, nil
}
