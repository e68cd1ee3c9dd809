package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Ingestion and retrieval both require it; construction is lazy, so a
// missing or failing model surfaces as domain.ErrEmbeddingUnavailable
// on first use rather than at startup.
//
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small with a dimensions override)
//   - The batching decorator wrapping either of the above
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The result matches the input positionally and in length.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector width (e.g. 384).
	// Every vector handed to the store must have exactly this width.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
