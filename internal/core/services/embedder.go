package services

import (
	"context"
	"fmt"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/logger"
	"github.com/ferrule-labs/quaero/internal/ratelimit"
)

// Embedder is the rate-limited embedding client. It wraps a raw
// provider with sub-batch grouping and the retry discipline of its
// private limiter.
type Embedder struct {
	provider  driven.EmbeddingService
	limiter   *ratelimit.Limiter
	batchSize int
}

// NewEmbedder creates an embedding client over the given provider.
// batchSize caps how many texts go into one API call.
func NewEmbedder(provider driven.EmbeddingService, limiter *ratelimit.Limiter, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Embedder{
		provider:  provider,
		limiter:   limiter,
		batchSize: batchSize,
	}
}

// EmbedBatch embeds all texts, position-aligned with the input. Inputs
// are grouped into sub-batches of at most batchSize items; each
// sub-batch is one rate-limited network call with retries. Any
// sub-batch exhausting its retries fails the whole call, so a caller
// never persists a partial embedding run.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := e.embedSubBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// EmbedQuery embeds a single text. Convenience over EmbedBatch for
// query-time use.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embedSubBatch performs one provider call with the limiter's retry
// discipline.
func (e *Embedder) embedSubBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for {
		if err := e.limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("embedding call not admitted: %w", err)
		}

		vectors, err := e.provider.EmbedBatch(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !e.limiter.ReportFailure() {
				return nil, fmt.Errorf("%w: embedding failed after retries: %v",
					domain.ErrRateLimitExceeded, err)
			}
			logger.Warn("Embedding call failed, retrying: %v", err)
			continue
		}

		if err := e.validate(texts, vectors); err != nil {
			e.limiter.ReportFailure()
			return nil, err
		}

		e.limiter.ReportSuccess()
		return vectors, nil
	}
}

// validate checks the provider response is aligned with the request and
// dimensioned as advertised.
func (e *Embedder) validate(texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: embedding response has %d vectors for %d texts",
			domain.ErrExternalService, len(vectors), len(texts))
	}
	dims := e.provider.Dimensions()
	for i := range vectors {
		if len(vectors[i]) != dims {
			return fmt.Errorf("%w: embedding %d has %d dimensions, expected %d",
				domain.ErrExternalService, i, len(vectors[i]), dims)
		}
	}
	return nil
}

// Dimensions returns the provider's embedding dimension.
func (e *Embedder) Dimensions() int {
	return e.provider.Dimensions()
}

// Stats returns the client's call counters.
func (e *Embedder) Stats() domain.ClientStats {
	return e.limiter.Snapshot()
}
