package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	dims      int
	calls     int
	batches   [][]string
	failures  int // fail the first N calls
	embedErr  error
	misaligned bool // return one vector too few
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	m.batches = append(m.batches, texts)

	if m.failures > 0 {
		m.failures--
		return nil, fmt.Errorf("upstream unavailable")
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}

	n := len(texts)
	if m.misaligned && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, m.dims)
		vectors[i][0] = float32(len(texts[i]))
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return m.dims }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	calls    int
	failures int // fail the first N calls
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if m.failures > 0 {
		m.failures--
		return "", fmt.Errorf("upstream unavailable")
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	dims      int
	entries   []domain.IndexEntry
	hits      []domain.Retrieved
	addErr    error
	searchErr error
}

func (m *mockVectorIndex) Add(_ context.Context, entries []domain.IndexEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.Retrieved, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := m.hits
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockVectorIndex) Clear(_ context.Context) error {
	m.entries = nil
	m.hits = nil
	return nil
}

func (m *mockVectorIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	entries := len(m.entries)
	if entries == 0 {
		entries = len(m.hits)
	}
	return domain.IndexStats{Entries: entries, Dimensions: m.dims}, nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockSourceStore implements driven.SourceStore for testing.
type mockSourceStore struct {
	sources map[string]domain.Source
	saveErr error
}

func newMockSourceStore() *mockSourceStore {
	return &mockSourceStore{sources: make(map[string]domain.Source)}
}

func (m *mockSourceStore) Save(_ context.Context, source domain.Source) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sources[source.ID] = source
	return nil
}

func (m *mockSourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s, ok := m.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockSourceStore) List(_ context.Context) ([]domain.Source, error) {
	out := make([]domain.Source, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSourceStore) Count(_ context.Context) (int, error) {
	return len(m.sources), nil
}

func (m *mockSourceStore) Clear(_ context.Context) error {
	m.sources = make(map[string]domain.Source)
	return nil
}

// mockFetcher implements driven.Fetcher for testing.
type mockFetcher struct {
	page     *driven.Page
	fetchErr error
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (*driven.Page, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.page, nil
}
