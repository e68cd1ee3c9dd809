// Command medvault is a local-first vault for personal medical
// documents: ingestion, retrieval, question answering, and safety
// screening, all on the user's machine.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/ai"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/config/file"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/druglookup/rxnorm"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/druglookup/static"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driven/storage/sqlite"
	"github.com/medvault-labs/medvault-cli/internal/adapters/driving/cli"
	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/core/services"
	"github.com/medvault-labs/medvault-cli/internal/extractors"
	"github.com/medvault-labs/medvault-cli/internal/extractors/pdf"
	"github.com/medvault-labs/medvault-cli/internal/extractors/plaintext"
	"github.com/medvault-labs/medvault-cli/internal/logger"
	"github.com/medvault-labs/medvault-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for API keys; absence is fine.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Configuration lives in ~/.medvault.
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	aiServices := ai.Initialise(ctx, settings, prompts)
	defer aiServices.Close()
	for _, warning := range aiServices.Warnings {
		logger.Warn("%s", warning)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening vault database: %w", err)
	}
	defer store.Close() //nolint:errcheck // Shutdown path
	docStore := store.DocumentStore()

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())

	pipeline, err := buildPipeline(settings, aiServices.Counter)
	if err != nil {
		return fmt.Errorf("building post-processor pipeline: %w", err)
	}

	validator := services.NewMedicalValidator(buildDrugDirectory(settings))

	chain := services.NewSummaryChain(aiServices.Summarisers, docStore, settings.Summary)
	ingestService := services.NewIngestService(docStore, registry, pipeline, aiServices.Embedder, chain)
	documentService := services.NewDocumentService(docStore)
	assistantService := services.NewAssistantService(docStore, aiServices.Embedder, aiServices.LLMService, validator)
	assistantService.SetPromptStore(prompts)

	// Retry sweeper picks up documents whose summary never arrived.
	sweeper := services.NewSummarySweeper(chain, docStore, time.Duration(settings.Summary.SweepIntervalMinutes)*time.Minute)
	go sweeper.Start(ctx) //nolint:errcheck // Blocks until Stop
	defer sweeper.Stop()  //nolint:errcheck // Shutdown path

	cli.SetServices(cli.Services{
		Ingest:    ingestService,
		Document:  documentService,
		Assistant: assistantService,
		Settings:  settingsService,
	})

	if err := cli.Execute(version); err != nil {
		return err
	}

	// Detached summarisation outlives the command that triggered it.
	ingestService.Wait()
	return nil
}

// buildPipeline assembles the post-processor pipeline, with the chunker
// budget taken from settings.
func buildPipeline(settings *domain.AppSettings, counter driven.TokenCounter) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry, counter)

	cfg := domain.DefaultPipelineConfig()
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"max_tokens":     settings.Chunking.MaxTokens,
		"overlap_tokens": settings.Chunking.OverlapTokens,
		"min_tokens":     settings.Chunking.MinTokens,
	}

	processors := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		p, err := registry.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		processors = append(processors, p)
	}

	return postprocessors.NewPipeline(processors...), nil
}

// buildDrugDirectory selects the drug lookup backend. The embedded
// static formulary is the offline fallback; RxNav is the default.
func buildDrugDirectory(settings *domain.AppSettings) driven.DrugDirectory {
	if settings.DrugLookup.Provider == "static" {
		return static.NewDirectory()
	}
	return rxnorm.NewDirectory(rxnorm.Config{
		BaseURL: settings.DrugLookup.BaseURL,
	})
}
