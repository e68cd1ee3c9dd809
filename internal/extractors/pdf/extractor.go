// Package pdf extracts text from PDF files.
//
// Extraction is two-stage: pdfcpu validates file integrity and counts
// pages, then the text layer is read page by page. Scanned PDFs have
// no text layer and yield near-empty text; the ingestion pipeline
// substitutes the extraction placeholder in that case.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct {
	conf *model.Configuration
}

// New creates a new PDF extractor with relaxed validation, which
// tolerates the minor spec violations common in generated PDFs.
func New() *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Extractor{conf: conf}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract validates the PDF and reads its text layer.
func (e *Extractor) Extract(_ context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error) {
	if file == nil || len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: file content must not be empty", domain.ErrInvalidInput)
	}

	if err := api.Validate(bytes.NewReader(file.Content), e.conf); err != nil {
		return nil, fmt.Errorf("%w: pdf integrity check: %v", domain.ErrExtractionFailed, err)
	}

	pageCount, err := api.PageCount(bytes.NewReader(file.Content), e.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdf page count: %v", domain.ErrExtractionFailed, err)
	}

	text, err := readTextLayer(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	return &domain.ExtractionResult{
		Text:      text,
		PageCount: pageCount,
	}, nil
}

// readTextLayer reads the text layer page by page. Pages without a
// text layer (scanned images) are skipped, so a fully scanned PDF
// comes back empty rather than failing.
func readTextLayer(content []byte) (text string, err error) {
	// The text-layer reader panics on some malformed font tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}

	var pages []string //nolint:prealloc // scanned pages are skipped
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		trimmed := strings.TrimSpace(pageText)
		if trimmed == "" {
			continue
		}
		pages = append(pages, trimmed)
	}

	return strings.Join(pages, "\n\n"), nil
}
