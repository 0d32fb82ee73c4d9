package cli

import (
	"context"
	"errors"
	"time"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldAdmin := adminService

	ingestService = &mockIngestService{chunks: 3}
	answerService = &mockAnswerService{
		answer: &domain.Answer{
			Text: "Paris is the capital of France.",
			Citations: []domain.Citation{
				{Source: domain.SourceRef{ID: "s1", Kind: domain.SourceKindDocument, Title: "geography.txt"}, Score: 0.91},
			},
		},
	}
	adminService = &mockAdminService{
		stats: &domain.Stats{
			Index: domain.IndexStats{
				Entries:       12,
				Dimensions:    1024,
				LastPersisted: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				Path:          "/tmp/index.qdx",
			},
			Sources:    2,
			Embedding:  domain.ClientStats{Calls: 4, Retries: 1},
			Generation: domain.ClientStats{Calls: 2},
		},
	}

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		adminService = oldAdmin
	}
}

type mockIngestService struct {
	chunks   int
	err      error
	texts    []string
	urls     []string
	lastRef  domain.SourceRef
	lastText string
}

func (m *mockIngestService) Ingest(_ context.Context, text string, ref domain.SourceRef) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.texts = append(m.texts, text)
	m.lastText = text
	m.lastRef = ref
	return m.chunks, nil
}

func (m *mockIngestService) IngestURL(_ context.Context, url string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.urls = append(m.urls, url)
	return m.chunks, nil
}

type mockAnswerService struct {
	answer  *domain.Answer
	err     error
	queries []string
}

func (m *mockAnswerService) Ask(_ context.Context, query string) (*domain.Answer, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

type mockAdminService struct {
	stats    *domain.Stats
	err      error
	clearers int
}

func (m *mockAdminService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.clearers++
	return nil
}

func (m *mockAdminService) Stats(_ context.Context) (*domain.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

var errMockFailure = errors.New("mock failure")
