package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrule-labs/quaero/internal/chunker"
	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

func newTestIngest(index *mockVectorIndex, store *mockSourceStore, failures int) (*IngestService, *mockEmbeddingService) {
	provider := &mockEmbeddingService{dims: 4, failures: failures}
	embedder := NewEmbedder(provider, newTestLimiter(1), 20)
	ch := chunker.New(chunker.WithSize(40), chunker.WithOverlap(10))
	return NewIngestService(ch, embedder, index, store), provider
}

func TestIngest_ChunksAndIndexes(t *testing.T) {
	index := &mockVectorIndex{dims: 4}
	store := newMockSourceStore()
	svc, _ := newTestIngest(index, store, 0)

	ref := domain.SourceRef{ID: "doc-a", Kind: domain.SourceKindDocument, Title: "Doc A"}
	text := strings.Repeat("all work and no play makes a dull day. ", 5)

	count, err := svc.Ingest(context.Background(), text, ref)
	require.NoError(t, err)
	assert.Greater(t, count, 1)
	assert.Len(t, index.entries, count)

	// Entries carry the source and ordered sequence numbers.
	for i, entry := range index.entries {
		assert.Equal(t, "doc-a", entry.Chunk.Source.ID)
		assert.Equal(t, i, entry.Chunk.Sequence)
		assert.Len(t, entry.Vector, 4)
	}

	// The registry recorded the source.
	recorded, err := store.Get(context.Background(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, count, recorded.ChunkCount)
	assert.Equal(t, domain.SourceKindDocument, recorded.Kind)
	assert.False(t, recorded.IngestedAt.IsZero())
}

func TestIngest_Validation(t *testing.T) {
	svc, _ := newTestIngest(&mockVectorIndex{dims: 4}, newMockSourceStore(), 0)
	ctx := context.Background()
	ref := domain.SourceRef{ID: "doc-a", Kind: domain.SourceKindDocument}

	_, err := svc.Ingest(ctx, "   ", ref)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, "text", domain.SourceRef{Kind: domain.SourceKindDocument})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, "text", domain.SourceRef{ID: "doc-a", Kind: "carrier-pigeon"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_EmbeddingFailureLeavesIndexUntouched(t *testing.T) {
	index := &mockVectorIndex{dims: 4}
	svc, _ := newTestIngest(index, newMockSourceStore(), 100)

	ref := domain.SourceRef{ID: "doc-a", Kind: domain.SourceKindDocument}
	_, err := svc.Ingest(context.Background(), "some text worth chunking", ref)
	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)

	// Nothing was persisted.
	assert.Empty(t, index.entries)
}

func TestIngest_SourceStoreFailureIsNonFatal(t *testing.T) {
	index := &mockVectorIndex{dims: 4}
	store := newMockSourceStore()
	store.saveErr = assert.AnError
	svc, _ := newTestIngest(index, store, 0)

	ref := domain.SourceRef{ID: "doc-a", Kind: domain.SourceKindDocument}
	count, err := svc.Ingest(context.Background(), "some text worth chunking", ref)
	require.NoError(t, err)
	assert.Greater(t, count, 0)
	assert.NotEmpty(t, index.entries)
}

func TestIngestURL(t *testing.T) {
	index := &mockVectorIndex{dims: 4}
	store := newMockSourceStore()
	svc, _ := newTestIngest(index, store, 0)
	svc.SetFetcher(&mockFetcher{page: &driven.Page{
		URL:   "https://example.com/article",
		Title: "An Article",
		Text:  strings.Repeat("readable extracted paragraph text. ", 4),
	}})

	count, err := svc.IngestURL(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	recorded, err := store.Get(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceKindURL, recorded.Kind)
	assert.Equal(t, "An Article", recorded.Title)
}

func TestIngestURL_TooLittleContent(t *testing.T) {
	svc, _ := newTestIngest(&mockVectorIndex{dims: 4}, newMockSourceStore(), 0)
	svc.SetFetcher(&mockFetcher{page: &driven.Page{
		URL:  "https://example.com/stub",
		Text: "cookie wall",
	}})

	_, err := svc.IngestURL(context.Background(), "https://example.com/stub")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestURL_WithoutFetcher(t *testing.T) {
	svc, _ := newTestIngest(&mockVectorIndex{dims: 4}, newMockSourceStore(), 0)

	_, err := svc.IngestURL(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
