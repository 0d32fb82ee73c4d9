package services

import (
	"context"
	"fmt"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/logger"
	"github.com/ferrule-labs/quaero/internal/ratelimit"
)

// Generation defaults. Low temperature keeps answers grounded in the
// supplied context rather than free-associating.
const (
	generateMaxTokens   = 1000
	generateTemperature = 0.1
)

// Generator is the rate-limited generation client. One prompt, one
// network call, retried under its private limiter's discipline.
type Generator struct {
	provider driven.LLMService
	limiter  *ratelimit.Limiter
}

// NewGenerator creates a generation client over the given provider.
func NewGenerator(provider driven.LLMService, limiter *ratelimit.Limiter) *Generator {
	return &Generator{
		provider: provider,
		limiter:  limiter,
	}
}

// Generate produces a completion for the prompt. Retries through the
// limiter's backoff; once the budget is exhausted the call fails and
// the failure streak stays armed until a later success.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	opts := driven.GenerateOptions{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	}

	for {
		if err := g.limiter.Acquire(ctx); err != nil {
			return "", fmt.Errorf("generation call not admitted: %w", err)
		}

		text, err := g.provider.Generate(ctx, prompt, opts)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !g.limiter.ReportFailure() {
				return "", fmt.Errorf("%w: generation failed after retries: %v",
					domain.ErrRateLimitExceeded, err)
			}
			logger.Warn("Generation call failed, retrying: %v", err)
			continue
		}

		g.limiter.ReportSuccess()
		return text, nil
	}
}

// Stats returns the client's call counters.
func (g *Generator) Stats() domain.ClientStats {
	return g.limiter.Snapshot()
}
