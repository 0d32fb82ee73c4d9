package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/core/ports/driving"
	"github.com/ferrule-labs/quaero/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// promptTemplate frames the retrieved context for the generation model.
const promptTemplate = `You are a helpful assistant that answers questions based on the provided context.
Use the following pieces of context to answer the question at the end.
If you don't know the answer based on the context, just say that you don't know.
Always cite the sources when possible.

Context:
%s

Question: %s

Answer:`

// AnswerService runs the retrieval-augmented generation pipeline.
type AnswerService struct {
	embedder    *Embedder
	generator   *Generator
	vectorIndex driven.VectorIndex
	retrieval   domain.RetrievalSettings
}

// NewAnswerService creates an answer service.
func NewAnswerService(
	embedder *Embedder,
	generator *Generator,
	vectorIndex driven.VectorIndex,
	retrieval domain.RetrievalSettings,
) *AnswerService {
	return &AnswerService{
		embedder:    embedder,
		generator:   generator,
		vectorIndex: vectorIndex,
		retrieval:   retrieval,
	}
}

// Ask answers the query over the ingested corpus. An empty knowledge
// base short-circuits with the distinguished no-knowledge answer; the
// generation model is never invoked for it.
func (s *AnswerService) Ask(ctx context.Context, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Query: %q", query)

	stats, err := s.vectorIndex.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspecting index: %w", err)
	}
	if stats.Entries == 0 {
		logger.Debug("Knowledge base is empty, skipping generation")
		return &domain.Answer{
			Text:        domain.NoKnowledgeAnswer,
			NoKnowledge: true,
		}, nil
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, queryVector, s.retrieval.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Retrieved %d chunks", len(hits))

	kept := s.fitContext(hits)
	prompt := fmt.Sprintf(promptTemplate, assembleContext(kept), query)
	logger.Debug("Prompt is %d characters over %d chunks", len(prompt), len(kept))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:      text,
		Citations: buildCitations(hits),
	}, nil
}

// fitContext keeps the highest-scored hits whose combined text fits the
// context budget. Hits arrive sorted by descending score, so dropping
// from the tail drops the lowest-scored first. The best hit is kept
// even when it alone exceeds the budget; an empty context would leave
// the model nothing to answer from.
func (s *AnswerService) fitContext(hits []domain.Retrieved) []domain.Retrieved {
	kept := make([]domain.Retrieved, 0, len(hits))
	used := 0
	for _, hit := range hits {
		if used+len(hit.Chunk.Text) > s.retrieval.MaxContextLength && len(kept) > 0 {
			break
		}
		kept = append(kept, hit)
		used += len(hit.Chunk.Text)
	}
	return kept
}

// assembleContext renders the retrieved chunks as source-attributed
// blocks for the prompt.
func assembleContext(hits []domain.Retrieved) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		title := hit.Chunk.Source.Title
		if title == "" {
			title = "No title"
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nTitle: %s\nContent: %s",
			hit.Chunk.Source.ID, title, hit.Chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// buildCitations deduplicates hits by source, keeping each source's
// best score, sorted descending. Equal scores preserve retrieval order.
func buildCitations(hits []domain.Retrieved) []domain.Citation {
	best := make(map[string]int)
	citations := make([]domain.Citation, 0, len(hits))

	for _, hit := range hits {
		if i, seen := best[hit.Chunk.Source.ID]; seen {
			if hit.Score > citations[i].Score {
				citations[i].Score = hit.Score
			}
			continue
		}
		best[hit.Chunk.Source.ID] = len(citations)
		citations = append(citations, domain.Citation{
			Source: hit.Chunk.Source,
			Score:  hit.Score,
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Score > citations[j].Score
	})
	return citations
}
