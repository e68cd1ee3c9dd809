package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the best matching extractor.
// Matching is by MIME type; when several extractors claim a type the
// one with the highest priority wins.
type Registry struct {
	extractors []driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor driven.Extractor) {
	if extractor == nil {
		return
	}
	r.extractors = append(r.extractors, extractor)
}

// Extract pulls text from a source file using the best matching
// extractor. Returns domain.ErrUnsupportedType when no extractor
// handles the MIME type.
func (r *Registry) Extract(ctx context.Context, file *domain.SourceFile) (*domain.ExtractionResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file must not be nil", domain.ErrInvalidInput)
	}

	extractor := r.match(file.MIMEType)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, file.MIMEType)
	}

	return extractor.Extract(ctx, file)
}

// SupportedMIMETypes returns all MIME types that can be extracted.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]struct{})
	var types []string //nolint:prealloc // size depends on dedup

	for _, e := range r.extractors {
		for _, mime := range e.SupportedMIMETypes() {
			if _, ok := seen[mime]; ok {
				continue
			}
			seen[mime] = struct{}{}
			types = append(types, mime)
		}
	}

	sort.Strings(types)
	return types
}

// match finds the highest-priority extractor for a MIME type.
func (r *Registry) match(mimeType string) driven.Extractor {
	normalised := normaliseMIME(mimeType)

	var best driven.Extractor
	for _, e := range r.extractors {
		for _, supported := range e.SupportedMIMETypes() {
			if normaliseMIME(supported) != normalised {
				continue
			}
			if best == nil || e.Priority() > best.Priority() {
				best = e
			}
		}
	}
	return best
}

// normaliseMIME lowercases a MIME type and drops parameters, so
// "text/plain; charset=utf-8" matches "text/plain".
func normaliseMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
