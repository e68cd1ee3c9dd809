package services

import (
	"fmt"
	"slices"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkMaxTokens     = "chunking.max_tokens"
	keyChunkOverlapTokens = "chunking.overlap_tokens"
	keyChunkMinTokens     = "chunking.min_tokens"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedDimensions    = "embedding.dimensions"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keySummaryChain       = "summary.chain"
	keySummaryTimeout     = "summary.timeout_seconds"
	keySummaryMaxLength   = "summary.max_length"
	keySummarySweep       = "summary.sweep_interval_minutes"
	keyDrugProvider       = "druglookup.provider"
	keyDrugBaseURL        = "druglookup.base_url"
	keyServerAddr         = "server.addr"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunking: domain.ChunkOptions{
			MaxTokens:     s.getInt(keyChunkMaxTokens, defaults.Chunking.MaxTokens),
			OverlapTokens: s.getInt(keyChunkOverlapTokens, defaults.Chunking.OverlapTokens),
			MinTokens:     s.getInt(keyChunkMinTokens, defaults.Chunking.MinTokens),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(s.configStore.GetString(keyLLMProvider)), // No default - unset means ask is disabled
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Summary: domain.SummarySettings{
			Chain:                s.getStringSlice(keySummaryChain, defaults.Summary.Chain),
			TimeoutSeconds:       s.getInt(keySummaryTimeout, defaults.Summary.TimeoutSeconds),
			MaxLength:            s.getInt(keySummaryMaxLength, defaults.Summary.MaxLength),
			SweepIntervalMinutes: s.getInt(keySummarySweep, defaults.Summary.SweepIntervalMinutes),
		},
		DrugLookup: domain.DrugLookupSettings{
			Provider: s.getString(keyDrugProvider, defaults.DrugLookup.Provider),
			BaseURL:  s.configStore.GetString(keyDrugBaseURL),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking settings: %w", err)
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkMaxTokens, settings.Chunking.MaxTokens); err != nil {
		return fmt.Errorf("save chunking max_tokens: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlapTokens, settings.Chunking.OverlapTokens); err != nil {
		return fmt.Errorf("save chunking overlap_tokens: %w", err)
	}
	if err := s.configStore.Set(keyChunkMinTokens, settings.Chunking.MinTokens); err != nil {
		return fmt.Errorf("save chunking min_tokens: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDimensions, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save summary chain settings
	if err := s.configStore.Set(keySummaryChain, settings.Summary.Chain); err != nil {
		return fmt.Errorf("save summary chain: %w", err)
	}
	if err := s.configStore.Set(keySummaryTimeout, settings.Summary.TimeoutSeconds); err != nil {
		return fmt.Errorf("save summary timeout_seconds: %w", err)
	}
	if err := s.configStore.Set(keySummaryMaxLength, settings.Summary.MaxLength); err != nil {
		return fmt.Errorf("save summary max_length: %w", err)
	}
	if err := s.configStore.Set(keySummarySweep, settings.Summary.SweepIntervalMinutes); err != nil {
		return fmt.Errorf("save summary sweep_interval_minutes: %w", err)
	}

	// Save drug lookup settings
	if err := s.configStore.Set(keyDrugProvider, settings.DrugLookup.Provider); err != nil {
		return fmt.Errorf("save druglookup provider: %w", err)
	}
	if err := s.configStore.Set(keyDrugBaseURL, settings.DrugLookup.BaseURL); err != nil {
		return fmt.Errorf("save druglookup base_url: %w", err)
	}

	// Save server settings
	if err := s.configStore.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save server addr: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// The vault stores one vector width for its lifetime. Known models
	// are pinned to it; an unknown model keeps the current width.
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		if settings.Embedding.Dimensions != 0 && settings.Embedding.Dimensions != d {
			return fmt.Errorf("model %s produces %d-wide vectors but the vault stores %d-wide vectors; re-ingest with a fresh vault to change width",
				settings.Embedding.Model, d, settings.Embedding.Dimensions)
		}
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSummaryChain updates the ordered summary provider chain.
func (s *SettingsService) SetSummaryChain(chain []string) error {
	for _, entry := range chain {
		if entry == domain.SummaryProviderExtractive {
			continue
		}
		if !domain.AIProvider(entry).IsValid() {
			return fmt.Errorf("unknown summary provider: %s", entry)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Summary.Chain = chain
	return s.Save(settings)
}

// Validate checks if current settings are complete and consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Chunking.Validate(); err != nil {
		return err
	}

	// Ingestion cannot run without an embedding provider.
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured; run 'medvault settings wizard'")
	}

	// The LLM is optional (ask is disabled without it), but a configured
	// provider must be coherent.
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s is missing its API key", settings.LLM.Provider)
	}

	for _, entry := range settings.Summary.Chain {
		if entry != domain.SummaryProviderExtractive && !domain.AIProvider(entry).IsValid() {
			return fmt.Errorf("unknown summary provider in chain: %s", entry)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// getString returns a config value or the default if not set.
func (s *SettingsService) getString(key, defaultValue string) string {
	if value := s.configStore.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt returns a config value or the default if not set.
func (s *SettingsService) getInt(key string, defaultValue int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultValue
}

// getStringSlice returns a config value or the default if not set.
func (s *SettingsService) getStringSlice(key string, defaultValue []string) []string {
	if value := s.configStore.GetStringSlice(key); value != nil {
		return value
	}
	return defaultValue
}

// getProvider returns a provider config value or the default if not set or invalid.
func (s *SettingsService) getProvider(key string, defaultValue domain.AIProvider) domain.AIProvider {
	value := s.configStore.GetString(key)
	if value == "" {
		return defaultValue
	}
	provider := domain.AIProvider(value)
	if !provider.IsValid() {
		return defaultValue
	}
	return provider
}
