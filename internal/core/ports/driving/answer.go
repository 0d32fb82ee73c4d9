package driving

import (
	"context"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// AnswerService answers natural-language questions over the ingested corpus.
type AnswerService interface {
	// Ask runs the retrieval-augmented generation pipeline and returns
	// the answer with citations. On an empty knowledge base it returns
	// the distinguished no-knowledge answer without invoking the
	// generation model.
	Ask(ctx context.Context, query string) (*domain.Answer, error)
}
