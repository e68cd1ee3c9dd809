package postprocessors

import (
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/postprocessors/chunker"
	"github.com/medvault-labs/medvault-cli/internal/postprocessors/redactor"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
// The counter supplies token counts for chunk budgets and post-redaction
// recounts.
func RegisterDefaults(r *Registry, counter driven.TokenCounter) {
	r.Register("chunker", buildChunker(counter))
	r.Register("redactor", buildRedactor(counter))
}

// buildChunker creates a chunker processor builder bound to a counter.
// Supported config keys:
//   - max_tokens (int): Upper bound for a chunk's token count
//   - overlap_tokens (int): Token budget carried between chunks
//   - min_tokens (int): Emission floor for a chunk
func buildChunker(counter driven.TokenCounter) BuilderFunc {
	return func(cfg map[string]any) (driven.PostProcessor, error) {
		var opts []chunker.Option

		if cfg != nil {
			if max := getIntFromConfig(cfg, "max_tokens"); max > 0 {
				opts = append(opts, chunker.WithMaxTokens(max))
			}
			// Overlap zero is a valid setting, so presence matters.
			if _, ok := cfg["overlap_tokens"]; ok {
				if overlap := getIntFromConfig(cfg, "overlap_tokens"); overlap >= 0 {
					opts = append(opts, chunker.WithOverlapTokens(overlap))
				}
			}
			if min := getIntFromConfig(cfg, "min_tokens"); min > 0 {
				opts = append(opts, chunker.WithMinTokens(min))
			}
		}

		return chunker.New(counter, opts...)
	}
}

// buildRedactor creates a redactor processor builder bound to a counter.
// The redactor takes no config.
func buildRedactor(counter driven.TokenCounter) BuilderFunc {
	return func(_ map[string]any) (driven.PostProcessor, error) {
		return redactor.New(counter), nil
	}
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
