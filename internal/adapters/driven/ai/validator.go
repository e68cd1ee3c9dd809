package ai

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator pings providers on behalf of the settings service,
// which cannot import adapter packages itself.
type ConfigValidator struct{}

// NewConfigValidator creates the validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the embedding provider in config.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM pings the generation provider in config.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(context.Background(), config)
}
