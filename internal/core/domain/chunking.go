package domain

import "fmt"

// Default chunking parameters. Sized for 384-wide sentence embedding
// models, where ~300 token passages retrieve well.
const (
	DefaultMaxTokens     = 320
	DefaultOverlapTokens = 48
	DefaultMinTokens     = 24
)

// ChunkOptions controls how document text is split into chunks.
type ChunkOptions struct {
	// MaxTokens is the upper bound for a chunk's token count.
	MaxTokens int

	// OverlapTokens is the token budget for the segment suffix carried
	// from one chunk into the next.
	OverlapTokens int

	// MinTokens is the emission floor; buffers below it are dropped.
	MinTokens int
}

// DefaultChunkOptions returns the standard chunking parameters.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		MaxTokens:     DefaultMaxTokens,
		OverlapTokens: DefaultOverlapTokens,
		MinTokens:     DefaultMinTokens,
	}
}

// Validate checks the options for internal consistency.
func (o ChunkOptions) Validate() error {
	if o.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidInput, o.MaxTokens)
	}
	if o.MinTokens <= 0 {
		return fmt.Errorf("%w: min tokens must be positive, got %d", ErrInvalidInput, o.MinTokens)
	}
	if o.OverlapTokens < 0 {
		return fmt.Errorf("%w: overlap tokens must not be negative, got %d", ErrInvalidInput, o.OverlapTokens)
	}
	if o.OverlapTokens >= o.MaxTokens {
		return fmt.Errorf("%w: overlap tokens (%d) must be below max tokens (%d)", ErrInvalidInput, o.OverlapTokens, o.MaxTokens)
	}
	if o.MinTokens > o.MaxTokens {
		return fmt.Errorf("%w: min tokens (%d) must not exceed max tokens (%d)", ErrInvalidInput, o.MinTokens, o.MaxTokens)
	}
	return nil
}
