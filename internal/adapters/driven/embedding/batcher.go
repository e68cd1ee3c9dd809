// Package embedding provides the batching decorator that wraps the
// concrete embedding adapters in its subpackages.
package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Batcher implements the interface.
var _ driven.EmbeddingService = (*Batcher)(nil)

// DefaultBatchSize caps how many texts are embedded concurrently.
// Batches run sequentially to bound peak memory on local models.
const DefaultBatchSize = 8

// Factory constructs the wrapped embedding service on first use.
type Factory func(ctx context.Context) (driven.EmbeddingService, error)

// Config holds configuration for the batching decorator.
type Config struct {
	// Factory builds the underlying service lazily.
	Factory Factory

	// BatchSize is the per-batch fan-out limit (default: 8).
	BatchSize int

	// Dimensions is the required vector width (default: domain.DefaultEmbeddingWidth).
	Dimensions int

	// Model is the model name reported before the service has loaded.
	Model string
}

// Batcher wraps an EmbeddingService with fixed-size batched fan-out,
// L2 normalisation and vector width enforcement. The underlying service
// is constructed on first use; concurrent first calls share a single
// load attempt and a failed load is retried on the next call.
type Batcher struct {
	factory    Factory
	batchSize  int
	dimensions int
	model      string

	loads   singleflight.Group
	mu      sync.RWMutex
	service driven.EmbeddingService
}

// NewBatcher creates a batching decorator around cfg.Factory.
func NewBatcher(cfg Config) *Batcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultEmbeddingWidth
	}

	return &Batcher{
		factory:    cfg.Factory,
		batchSize:  cfg.BatchSize,
		dimensions: cfg.Dimensions,
		model:      cfg.Model,
	}
}

// load returns the wrapped service, constructing it on first use.
func (b *Batcher) load(ctx context.Context) (driven.EmbeddingService, error) {
	b.mu.RLock()
	svc := b.service
	b.mu.RUnlock()
	if svc != nil {
		return svc, nil
	}

	v, err, _ := b.loads.Do("load", func() (any, error) {
		b.mu.RLock()
		svc := b.service
		b.mu.RUnlock()
		if svc != nil {
			return svc, nil
		}

		loaded, err := b.factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}

		b.mu.Lock()
		b.service = loaded
		b.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(driven.EmbeddingService), nil
}

// Embed generates a normalised vector embedding for the given text.
func (b *Batcher) Embed(ctx context.Context, text string) ([]float32, error) {
	svc, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := svc.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return b.normalise(vec)
}

// EmbedBatch generates embeddings for multiple texts. The result always
// matches the input in length and order: index i of the output is the
// embedding of texts[i]. Inputs are processed in fixed-size batches with
// intra-batch concurrency; batches themselves run sequentially.
func (b *Batcher) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	svc, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				vec, err := svc.Embed(gctx, texts[i])
				if err != nil {
					return fmt.Errorf("embed text %d: %w", i, err)
				}
				normalised, err := b.normalise(vec)
				if err != nil {
					return fmt.Errorf("embed text %d: %w", i, err)
				}
				results[i] = normalised
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// normalise enforces the configured vector width and scales the vector
// to unit L2 norm. Zero vectors are returned unchanged.
func (b *Batcher) normalise(vec []float32) ([]float32, error) {
	if len(vec) != b.dimensions {
		return nil, fmt.Errorf("expected %d dimensions, got %d", b.dimensions, len(vec))
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec, nil
	}

	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) * inv)
	}
	return out, nil
}

// Dimensions returns the enforced embedding vector width.
func (b *Batcher) Dimensions() int {
	return b.dimensions
}

// ModelName returns the wrapped model's name, or the configured name if
// the service has not loaded yet.
func (b *Batcher) ModelName() string {
	b.mu.RLock()
	svc := b.service
	b.mu.RUnlock()
	if svc != nil {
		return svc.ModelName()
	}
	return b.model
}

// Ping loads the underlying service if needed and checks reachability.
func (b *Batcher) Ping(ctx context.Context) error {
	svc, err := b.load(ctx)
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the underlying service if it was loaded.
func (b *Batcher) Close() error {
	b.mu.Lock()
	svc := b.service
	b.service = nil
	b.mu.Unlock()

	if svc != nil {
		return svc.Close()
	}
	return nil
}
