package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector width the vault stores. All providers
	// must produce vectors of exactly this width.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration for answer generation.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Summary chain provider names. The chain is an ordered strategy list;
// each name resolves to a Summariser at startup.
const (
	// SummaryProviderExtractive is the offline frequency summariser.
	SummaryProviderExtractive = "extractive"
)

// SummarySettings holds the summarisation failover chain configuration.
type SummarySettings struct {
	// Chain is the ordered provider list, tried first to last.
	// Entries are AIProvider names or SummaryProviderExtractive.
	Chain []string

	// TimeoutSeconds bounds each provider attempt.
	TimeoutSeconds int

	// MaxLength is the requested summary length in characters.
	MaxLength int

	// SweepIntervalMinutes is how often the retry sweeper looks for
	// documents whose summary is still unset. 0 disables the sweeper.
	SweepIntervalMinutes int
}

// DrugLookupSettings holds the drug directory configuration.
type DrugLookupSettings struct {
	// Provider selects the directory: "rxnorm" (RxNav REST) or
	// "static" (embedded formulary).
	Provider string

	// BaseURL overrides the RxNav endpoint, mainly for tests.
	BaseURL string
}

// ServerSettings holds the HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address for `medvault serve`.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chunking holds the token-aware splitter parameters.
	Chunking ChunkOptions

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds the answer-generation provider settings.
	LLM LLMSettings

	// Summary holds the summarisation chain settings.
	Summary SummarySettings

	// DrugLookup holds the drug directory settings.
	DrugLookup DrugLookupSettings

	// Server holds the HTTP API settings.
	Server ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embedding defaults to local Ollama with all-minilm; cloud providers
// must be explicitly configured via the settings wizard.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: DefaultChunkOptions(),
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "all-minilm",
			Dimensions: DefaultEmbeddingWidth,
		},
		// LLM is left unconfigured - user must set up via settings wizard
		LLM: LLMSettings{},
		Summary: SummarySettings{
			Chain:                []string{string(AIProviderGemini), string(AIProviderOllama), SummaryProviderExtractive},
			TimeoutSeconds:       30,
			MaxLength:            600,
			SweepIntervalMinutes: 15,
		},
		DrugLookup: DrugLookupSettings{
			Provider: "rxnorm",
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:8787",
		},
	}
}

// DefaultEmbeddingWidth is the vector width the vault stores.
// all-minilm and text-embedding-3-small (with the dimensions request
// parameter) both produce this width.
const DefaultEmbeddingWidth = 384

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderGemini: "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the native vector width for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models (text-embedding-3-* accept a dimensions
		// request parameter and are held at the vault width)
		"text-embedding-3-small": 384,
		"text-embedding-3-large": 384,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be
// added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// token-aware chunking followed by identifier redaction.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "redactor"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"max_tokens":     DefaultMaxTokens,
				"overlap_tokens": DefaultOverlapTokens,
				"min_tokens":     DefaultMinTokens,
			},
		},
	}
}
