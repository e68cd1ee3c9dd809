package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// Default summarisation chain parameters.
const (
	// DefaultSummaryTimeout bounds each provider attempt.
	DefaultSummaryTimeout = 30 * time.Second

	// DefaultSummaryMaxLength is the requested summary length in characters.
	DefaultSummaryMaxLength = 600
)

// SummaryChain runs an ordered list of summarisers with failover.
// Providers are tried strictly in order; the first success wins and the
// result is written through the document store. Provider failure is
// data, not a panic: the outcome records every attempt.
type SummaryChain struct {
	providers []driven.Summariser
	docStore  driven.DocumentStore
	timeout   time.Duration
	maxLength int
}

// NewSummaryChain creates a summarisation chain from settings.
// Zero timeout and length fall back to the defaults.
func NewSummaryChain(providers []driven.Summariser, docStore driven.DocumentStore, cfg domain.SummarySettings) *SummaryChain {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultSummaryMaxLength
	}

	return &SummaryChain{
		providers: providers,
		docStore:  docStore,
		timeout:   timeout,
		maxLength: maxLength,
	}
}

// Len returns the number of configured providers.
func (c *SummaryChain) Len() int {
	return len(c.providers)
}

// Run summarises a document through the chain and writes the winning
// summary through the store. The outcome carries one attempt record per
// provider tried; Err is set only when no provider produced a summary
// (wrapping domain.ErrSummaryFailed) or the store write failed.
func (c *SummaryChain) Run(ctx context.Context, doc *domain.Document) domain.SummaryOutcome {
	outcome := domain.SummaryOutcome{DocumentID: doc.ID}

	if len(c.providers) == 0 {
		outcome.Err = fmt.Errorf("%w: no providers configured", domain.ErrSummaryFailed)
		return outcome
	}

	var reasons []error
	for _, provider := range c.providers {
		if ctx.Err() != nil {
			outcome.Err = fmt.Errorf("%w: %w", domain.ErrSummaryFailed, ctx.Err())
			return outcome
		}

		name := provider.ModelName()
		summary, err := c.attempt(ctx, provider, doc.ExtractedText)
		outcome.Attempts = append(outcome.Attempts, domain.SummaryAttempt{Provider: name, Err: err})

		if err != nil {
			logger.Debug("Summariser %s failed for %s: %v", name, doc.ID, err)
			reasons = append(reasons, fmt.Errorf("%s: %w", name, err))
			continue
		}

		outcome.Summary = summary
		outcome.Provider = name
		break
	}

	if outcome.Summary == "" {
		outcome.Err = fmt.Errorf("%w: %w", domain.ErrSummaryFailed, errors.Join(reasons...))
		return outcome
	}

	if err := c.docStore.UpdateSummary(ctx, doc.ID, outcome.Summary); err != nil {
		outcome.Err = fmt.Errorf("store summary: %w", err)
	}
	return outcome
}

// attempt runs a single provider under the per-attempt timeout.
// An empty summary counts as a failure so the chain moves on.
func (c *SummaryChain) attempt(ctx context.Context, provider driven.Summariser, text string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	summary, err := provider.Summarise(attemptCtx, text, c.maxLength)
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("empty summary")
	}
	return summary, nil
}
