package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

func retrievedHit(sourceID, text string, score float64) domain.Retrieved {
	return domain.Retrieved{
		Chunk: domain.Chunk{
			ID:   sourceID + "-chunk",
			Text: text,
			Source: domain.SourceRef{
				ID:   sourceID,
				Kind: domain.SourceKindDocument,
			},
		},
		Score: score,
	}
}

func newTestAnswer(index *mockVectorIndex, llm *mockLLMService, retrieval domain.RetrievalSettings) *AnswerService {
	provider := &mockEmbeddingService{dims: 4}
	embedder := NewEmbedder(provider, newTestLimiter(1), 20)
	generator := NewGenerator(llm, newTestLimiter(1))
	return NewAnswerService(embedder, generator, index, retrieval)
}

func TestAsk_EmptyKnowledgeBase(t *testing.T) {
	llm := &mockLLMService{response: "should never be used"}
	svc := newTestAnswer(&mockVectorIndex{dims: 4}, llm, domain.RetrievalSettings{
		TopK: 5, MaxContextLength: 8000,
	})

	answer, err := svc.Ask(context.Background(), "anything at all?")
	require.NoError(t, err)

	assert.True(t, answer.NoKnowledge)
	assert.Equal(t, domain.NoKnowledgeAnswer, answer.Text)
	assert.Empty(t, answer.Citations)

	// The generation model was not invoked.
	assert.Equal(t, 0, llm.calls)
}

func TestAsk_AnswersWithCitations(t *testing.T) {
	index := &mockVectorIndex{dims: 4, hits: []domain.Retrieved{
		retrievedHit("doc-a", "Paris is the capital of France.", 0.95),
	}}
	llm := &mockLLMService{response: "The capital of France is Paris."}
	svc := newTestAnswer(index, llm, domain.RetrievalSettings{
		TopK: 1, MaxContextLength: 8000,
	})

	answer, err := svc.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "Paris")
	assert.False(t, answer.NoKnowledge)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "doc-a", answer.Citations[0].Source.ID)
	assert.InDelta(t, 0.95, answer.Citations[0].Score, 1e-9)

	// The prompt carries the retrieved context and the question.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Paris is the capital of France.")
	assert.Contains(t, llm.prompts[0], "What is the capital of France?")
	assert.Contains(t, llm.prompts[0], "Source: doc-a")
}

func TestAsk_EmptyQuery(t *testing.T) {
	svc := newTestAnswer(&mockVectorIndex{dims: 4}, &mockLLMService{}, domain.RetrievalSettings{
		TopK: 5, MaxContextLength: 8000,
	})

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_DeduplicatesCitationsBySource(t *testing.T) {
	index := &mockVectorIndex{dims: 4, hits: []domain.Retrieved{
		retrievedHit("doc-a", "first chunk", 0.9),
		retrievedHit("doc-b", "other doc", 0.8),
		retrievedHit("doc-a", "second chunk", 0.7),
	}}
	llm := &mockLLMService{response: "answer"}
	svc := newTestAnswer(index, llm, domain.RetrievalSettings{
		TopK: 3, MaxContextLength: 8000,
	})

	answer, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err)

	// One citation per source, best score kept, descending order.
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, "doc-a", answer.Citations[0].Source.ID)
	assert.InDelta(t, 0.9, answer.Citations[0].Score, 1e-9)
	assert.Equal(t, "doc-b", answer.Citations[1].Source.ID)
	assert.InDelta(t, 0.8, answer.Citations[1].Score, 1e-9)
}

func TestAsk_ContextBudgetDropsLowestScored(t *testing.T) {
	long := strings.Repeat("x", 60)
	index := &mockVectorIndex{dims: 4, hits: []domain.Retrieved{
		retrievedHit("doc-a", "best "+long, 0.9),
		retrievedHit("doc-b", "worst "+long, 0.2),
	}}
	llm := &mockLLMService{response: "answer"}
	svc := newTestAnswer(index, llm, domain.RetrievalSettings{
		TopK: 2, MaxContextLength: 100,
	})

	answer, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err)

	// Only the best-scored chunk fit the budget.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "best")
	assert.NotContains(t, llm.prompts[0], "worst")

	// Citations still reflect everything retrieved.
	assert.Len(t, answer.Citations, 2)
}

func TestAsk_OversizedTopChunkStillIncluded(t *testing.T) {
	index := &mockVectorIndex{dims: 4, hits: []domain.Retrieved{
		retrievedHit("doc-a", strings.Repeat("y", 500), 0.9),
	}}
	llm := &mockLLMService{response: "answer"}
	svc := newTestAnswer(index, llm, domain.RetrievalSettings{
		TopK: 1, MaxContextLength: 100,
	})

	_, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err)

	// A budget smaller than the single best chunk still produces a
	// non-empty context.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "yyy")
}

func TestAsk_GenerationFailurePropagates(t *testing.T) {
	index := &mockVectorIndex{dims: 4, hits: []domain.Retrieved{
		retrievedHit("doc-a", "content", 0.9),
	}}
	llm := &mockLLMService{failures: 100}
	svc := newTestAnswer(index, llm, domain.RetrievalSettings{
		TopK: 1, MaxContextLength: 8000,
	})

	_, err := svc.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
}
