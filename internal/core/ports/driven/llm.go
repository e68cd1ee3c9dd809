// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model operations for answering questions
// over the vault. This is an optional service - when nil, ask is
// disabled and ingestion/summarisation still work.
//
// Implementations may include:
//   - Google Gemini (gemini-1.5-flash)
//   - OpenAI (gpt-4o-mini)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Summarise creates a summary of document content.
	Summarise(ctx context.Context, content string, maxLength int) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used by the settings wizard to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Summariser is the summarisation capability on its own.
// The failover chain is an ordered list of these; every LLMService
// satisfies it, and offline providers (the extractive summariser)
// implement only it.
type Summariser interface {
	// Summarise creates a summary of document content.
	Summarise(ctx context.Context, content string, maxLength int) (string, error)

	// ModelName identifies the provider in outcomes and logs.
	ModelName() string
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
