// Package redactor masks identifying numbers in chunk content.
//
// Chunk text flows into embedding requests and LLM prompts, so
// SSN-like and phone-like identifiers are masked before a chunk is
// stored. The document's extracted text is left untouched; only the
// retrieval units are scrubbed.
package redactor

import (
	"context"
	"regexp"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Replacement markers for masked identifiers.
const (
	SSNMask   = "[REDACTED-SSN]"
	PhoneMask = "[REDACTED-PHONE]"
)

// Identifier shapes. Dosage ranges ("1-2 tablets") and dates
// ("2024-01-15") never match either pattern.
var (
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	phonePattern = regexp.MustCompile(`(?:\+1[-.\s]?)?(?:\(\d{3}\)\s*|\b\d{3}[-.])\d{3}[-.]\d{4}\b`)
)

// Processor masks identifiers in chunk content.
// It implements the PostProcessor interface.
type Processor struct {
	counter driven.TokenCounter
}

// New creates a new redactor processor. The counter keeps chunk token
// counts accurate after masking; a nil counter leaves counts as-is.
func New(counter driven.TokenCounter) *Processor {
	return &Processor{counter: counter}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "redactor"
}

// Process masks identifiers in each chunk's content.
// The document itself is never modified.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		masked := Redact(chunks[i].Content)
		if masked == chunks[i].Content {
			continue
		}
		chunks[i].Content = masked
		if p.counter != nil {
			chunks[i].TokenCount = p.counter.CountTokens(masked)
		}
	}
	return chunks, nil
}

// Redact masks SSN-like and phone-like identifiers in text.
func Redact(text string) string {
	text = ssnPattern.ReplaceAllString(text, SSNMask)
	text = phonePattern.ReplaceAllString(text, PhoneMask)
	return text
}
