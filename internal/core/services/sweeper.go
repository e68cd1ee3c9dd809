package services

import (
	"context"
	"sync"
	"time"

	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// DefaultSweepBatch caps how many documents one sweep retries.
const DefaultSweepBatch = 20

// SummarySweeper periodically retries documents whose summary is still
// unset. Summarisation is detached from ingestion, so a provider outage
// leaves gaps; the sweeper closes them once providers recover.
type SummarySweeper struct {
	chain    *SummaryChain
	docStore driven.DocumentStore
	interval time.Duration
	batch    int

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSummarySweeper creates a sweeper. An interval of zero or less
// disables it: Start returns immediately.
func NewSummarySweeper(chain *SummaryChain, docStore driven.DocumentStore, interval time.Duration) *SummarySweeper {
	return &SummarySweeper{
		chain:    chain,
		docStore: docStore,
		interval: interval,
		batch:    DefaultSweepBatch,
	}
}

// Start begins the sweep loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *SummarySweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Sweep immediately on startup, then on the interval
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop gracefully shuts down the sweeper and waits for an in-flight
// sweep to finish.
func (s *SummarySweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// sweep runs the chain over documents missing a summary, oldest first.
func (s *SummarySweeper) sweep(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	docs, err := s.docStore.ListMissingSummaries(ctx, s.batch)
	if err != nil {
		logger.Error("Summary sweep: list failed: %v", err)
		return
	}
	if len(docs) == 0 {
		return
	}

	logger.Debug("Summary sweep: %d documents pending", len(docs))
	recovered := 0
	for i := range docs {
		if ctx.Err() != nil {
			return
		}
		outcome := s.chain.Run(ctx, &docs[i])
		if outcome.Succeeded() {
			recovered++
		}
	}
	logger.Debug("Summary sweep: recovered %d of %d", recovered, len(docs))
}
