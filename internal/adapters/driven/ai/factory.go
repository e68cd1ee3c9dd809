// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/embedding"
	ollamaembed "github.com/medvault-labs/medvault-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/medvault-labs/medvault-cli/internal/adapters/driven/embedding/openai"
	geminillm "github.com/medvault-labs/medvault-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/medvault-labs/medvault-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/medvault-labs/medvault-cli/internal/adapters/driven/llm/openai"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/summariser/extractive"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/tokenizer/heuristic"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Environment variables consulted for cloud credentials when a summary
// chain entry is not covered by the configured LLM provider.
const (
	envGeminiAPIKey = "GEMINI_API_KEY"
	envOpenAIAPIKey = "OPENAI_API_KEY"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	Embedder    *embedding.Batcher
	LLMService  driven.LLMService   // Answer generation; nil when unconfigured.
	Summarisers []driven.Summariser // Resolved summary chain, in configured order.
	Counter     driven.TokenCounter
	Warnings    []string // Non-fatal issues that caused fallback or skips.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedder != nil {
		r.Embedder.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
	for _, s := range r.Summarisers {
		if closer, ok := s.(interface{ Close() error }); ok {
			closer.Close()
		}
	}
}

// Initialise builds every AI-backed service from settings: the token
// counter, the batching embedder, the answer LLM and the summary chain.
// Construction problems are collected as warnings rather than failing
// the whole set; the vault degrades instead of refusing to start.
func Initialise(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	counter, warning := CreateTokenCounter()
	result.Counter = counter
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	result.Embedder = CreateBatchingEmbedder(&settings.Embedding)

	if settings.LLM.IsConfigured() {
		svc, err := CreateLLMService(ctx, &settings.LLM)
		switch {
		case err != nil:
			result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v", err))
		case svc != nil:
			if aware, ok := svc.(driven.PromptStoreAware); ok && prompts != nil {
				aware.SetPromptStore(prompts)
			}
			result.LLMService = svc
		}
	}

	chain, warnings := BuildSummaryChain(ctx, settings, prompts)
	result.Summarisers = chain
	result.Warnings = append(result.Warnings, warnings...)

	return result
}

// CreateTokenCounter returns the token counter for chunk budgets.
// The BPE counter needs its rank data available at startup; when that
// fails the bytes-based estimate keeps the pipeline running and the
// returned warning says so.
func CreateTokenCounter() (driven.TokenCounter, string) {
	counter, err := tiktoken.NewCounter(tiktoken.DefaultEncoding)
	if err != nil {
		return heuristic.NewCounter(), fmt.Sprintf("token counter fell back to byte estimate: %v", err)
	}
	return counter, ""
}

// CreateBatchingEmbedder wraps the configured embedding provider in the
// batching decorator. The provider itself is constructed on first use,
// so an unreachable or unconfigured provider surfaces as
// domain.ErrEmbeddingUnavailable at call time, not at startup.
func CreateBatchingEmbedder(settings *domain.EmbeddingSettings) *embedding.Batcher {
	var cfg domain.EmbeddingSettings
	if settings != nil {
		cfg = *settings
	}

	return embedding.NewBatcher(embedding.Config{
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Factory: func(_ context.Context) (driven.EmbeddingService, error) {
			if !cfg.IsConfigured() {
				return nil, fmt.Errorf("embedding provider not configured")
			}
			return CreateEmbeddingService(&cfg)
		},
	})
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'medvault settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'medvault settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'medvault settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'medvault settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGemini:
		// Gemini embedding models do not produce the vault width.
		return nil, fmt.Errorf("gemini does not serve embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderGemini:
		return createGeminiLLM(ctx, settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// BuildSummaryChain resolves the configured chain names into concrete
// summarisers, in order. Entries that cannot be built (missing API key,
// client construction failure, unknown name) are skipped with a warning
// so one bad entry never takes down the rest of the chain.
func BuildSummaryChain(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) ([]driven.Summariser, []string) {
	var chain []driven.Summariser //nolint:prealloc // entries may be skipped
	var warnings []string

	for _, name := range settings.Summary.Chain {
		switch name {
		case domain.SummaryProviderExtractive:
			chain = append(chain, extractive.New())

		case string(domain.AIProviderOllama):
			svc := ollamallm.NewLLMService(ollamallm.LLMConfig{
				BaseURL: chainBaseURL(settings, domain.AIProviderOllama),
				Model:   chainModel(settings, domain.AIProviderOllama),
			})
			hookPromptStore(svc, prompts)
			chain = append(chain, svc)

		case string(domain.AIProviderGemini):
			key := chainAPIKey(settings, domain.AIProviderGemini, envGeminiAPIKey)
			if key == "" {
				warnings = append(warnings, "summary chain: gemini skipped, no API key (set GEMINI_API_KEY)")
				continue
			}
			svc, err := geminillm.NewLLMService(ctx, geminillm.Config{
				APIKey: key,
				Model:  chainModel(settings, domain.AIProviderGemini),
			})
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("summary chain: gemini skipped: %v", err))
				continue
			}
			hookPromptStore(svc, prompts)
			chain = append(chain, svc)

		case string(domain.AIProviderOpenAI):
			key := chainAPIKey(settings, domain.AIProviderOpenAI, envOpenAIAPIKey)
			if key == "" {
				warnings = append(warnings, "summary chain: openai skipped, no API key (set OPENAI_API_KEY)")
				continue
			}
			svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
				APIKey: key,
				Model:  chainModel(settings, domain.AIProviderOpenAI),
			})
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("summary chain: openai skipped: %v", err))
				continue
			}
			hookPromptStore(svc, prompts)
			chain = append(chain, svc)

		default:
			warnings = append(warnings, fmt.Sprintf("summary chain: unknown provider %q skipped", name))
		}
	}

	if len(chain) == 0 {
		warnings = append(warnings, "summary chain is empty, summaries will stay unset")
	}

	return chain, warnings
}

// chainModel picks the model for a summary chain entry: the configured
// LLM model when the providers match, the provider default otherwise.
func chainModel(settings *domain.AppSettings, provider domain.AIProvider) string {
	if settings.LLM.Provider == provider && settings.LLM.Model != "" {
		return settings.LLM.Model
	}
	return domain.DefaultLLMModels()[provider]
}

// chainBaseURL picks the base URL for a summary chain entry.
func chainBaseURL(settings *domain.AppSettings, provider domain.AIProvider) string {
	if settings.LLM.Provider == provider {
		return settings.LLM.BaseURL
	}
	return ""
}

// chainAPIKey resolves a cloud credential for a summary chain entry:
// the configured LLM key when the providers match, the environment
// variable otherwise.
func chainAPIKey(settings *domain.AppSettings, provider domain.AIProvider, envVar string) string {
	if settings.LLM.Provider == provider && settings.LLM.APIKey != "" {
		return settings.LLM.APIKey
	}
	return os.Getenv(envVar)
}

// hookPromptStore attaches the prompt store to services that accept one.
func hookPromptStore(svc any, prompts driven.PromptStore) {
	if prompts == nil {
		return
	}
	if aware, ok := svc.(driven.PromptStoreAware); ok {
		aware.SetPromptStore(prompts)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(ctx, geminillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
}
