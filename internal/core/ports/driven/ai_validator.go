package driven

import "github.com/medvault-labs/medvault-cli/internal/core/domain"

// AIConfigValidator checks provider settings by pinging the provider,
// so the settings wizard can reject a bad API key or unreachable host
// before persisting it. Unconfigured settings validate as nil.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider in config.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the generation provider in config.
	ValidateLLM(config *domain.LLMSettings) error
}
