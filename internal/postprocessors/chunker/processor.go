// Package chunker provides a token-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medvault-labs/medvault-cli/internal/chunker"
	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Processor splits document text into token-bounded chunks.
// It implements the PostProcessor interface.
type Processor struct {
	splitter *chunker.Splitter
	counter  driven.TokenCounter
}

// Option configures the chunker processor.
type Option func(*domain.ChunkOptions)

// WithMaxTokens sets the upper bound for a chunk's token count.
func WithMaxTokens(n int) Option {
	return func(o *domain.ChunkOptions) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

// WithOverlapTokens sets the token budget carried between chunks.
func WithOverlapTokens(n int) Option {
	return func(o *domain.ChunkOptions) {
		if n >= 0 {
			o.OverlapTokens = n
		}
	}
}

// WithMinTokens sets the emission floor for a chunk.
func WithMinTokens(n int) Option {
	return func(o *domain.ChunkOptions) {
		if n > 0 {
			o.MinTokens = n
		}
	}
}

// New creates a new chunker processor. The counter decides token
// counts for chunk boundaries; options adjust the default budgets.
func New(counter driven.TokenCounter, opts ...Option) (*Processor, error) {
	options := domain.DefaultChunkOptions()
	for _, opt := range opts {
		opt(&options)
	}

	splitter, err := chunker.New(counter, options)
	if err != nil {
		return nil, fmt.Errorf("chunker processor: %w", err)
	}

	return &Processor{splitter: splitter, counter: counter}, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document's extracted text into chunks.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document must not be nil", domain.ErrInvalidInput)
	}

	pieces := p.splitter.Split(doc.ExtractedText)
	if len(pieces) == 0 {
		// Text below the emission floor still needs to be retrievable
		// (the extraction placeholder is shorter than MinTokens). A
		// below-minimum chunk is allowed only as the sole chunk.
		text := strings.TrimSpace(doc.ExtractedText)
		if text == "" {
			return nil, nil
		}
		return []domain.Chunk{{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			OwnerID:    doc.OwnerID,
			Index:      0,
			Content:    text,
			TokenCount: p.counter.CountTokens(text),
		}}, nil
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			OwnerID:    doc.OwnerID,
			Index:      piece.Index,
			Content:    piece.Content,
			TokenCount: piece.TokenCount,
		})
	}

	return chunks, nil
}
