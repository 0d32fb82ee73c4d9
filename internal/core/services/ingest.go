package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ferrule-labs/quaero/internal/chunker"
	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/core/ports/driving"
	"github.com/ferrule-labs/quaero/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// minFetchedContent is the shortest extracted page text worth
// ingesting. Shorter extractions usually mean a paywall, a consent
// interstitial or a scraping failure.
const minFetchedContent = 50

// IngestService feeds content into the knowledge base: it chunks the
// text, embeds every chunk and adds the entries to the vector index in
// one atomic call.
type IngestService struct {
	chunker     *chunker.Chunker
	embedder    *Embedder
	vectorIndex driven.VectorIndex
	sourceStore driven.SourceStore
	fetcher     driven.Fetcher
}

// NewIngestService creates an ingest service. The fetcher is optional;
// without it IngestURL fails with ErrInvalidInput.
func NewIngestService(
	ch *chunker.Chunker,
	embedder *Embedder,
	vectorIndex driven.VectorIndex,
	sourceStore driven.SourceStore,
) *IngestService {
	return &IngestService{
		chunker:     ch,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		sourceStore: sourceStore,
	}
}

// SetFetcher enables URL ingestion.
func (s *IngestService) SetFetcher(f driven.Fetcher) {
	s.fetcher = f
}

// Ingest chunks, embeds and indexes the text. Nothing is persisted
// unless every chunk embedded successfully, so a failed ingestion
// leaves the index exactly as it was.
func (s *IngestService) Ingest(ctx context.Context, text string, ref domain.SourceRef) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}
	if ref.ID == "" {
		return 0, fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	if !ref.Kind.IsValid() {
		return 0, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, ref.Kind)
	}

	logger.Section("Ingestion")
	logger.Debug("Source: %s (%s), %d characters", ref.ID, ref.Kind, len(text))

	chunks := s.chunker.Split(text, ref)
	if len(chunks) == 0 {
		return 0, nil
	}
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = domain.IndexEntry{Chunk: chunks[i], Vector: vectors[i]}
	}

	if err := s.vectorIndex.Add(ctx, entries); err != nil {
		return 0, fmt.Errorf("indexing chunks: %w", err)
	}

	if s.sourceStore != nil {
		record := domain.Source{
			ID:         ref.ID,
			Kind:       ref.Kind,
			Title:      ref.Title,
			ChunkCount: len(chunks),
			IngestedAt: time.Now(),
		}
		if err := s.sourceStore.Save(ctx, record); err != nil {
			// The content is already indexed and searchable; a stale
			// registry only skews the stats surface.
			logger.Warn("Recording source %s failed: %v", ref.ID, err)
		}
	}

	logger.Info("Ingested %d chunks from %s", len(chunks), ref.ID)
	return len(chunks), nil
}

// IngestURL fetches the URL, extracts its readable text and ingests it.
func (s *IngestService) IngestURL(ctx context.Context, url string) (int, error) {
	if s.fetcher == nil {
		return 0, fmt.Errorf("%w: URL ingestion is not available", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(url) == "" {
		return 0, fmt.Errorf("%w: URL is empty", domain.ErrInvalidInput)
	}

	logger.Section("URL Fetch")
	logger.Debug("Fetching %s", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	if len(strings.TrimSpace(page.Text)) < minFetchedContent {
		return 0, fmt.Errorf("%w: %s yielded too little readable content",
			domain.ErrInvalidInput, url)
	}

	ref := domain.SourceRef{
		ID:    page.URL,
		Kind:  domain.SourceKindURL,
		Title: page.Title,
	}
	return s.Ingest(ctx, page.Text, ref)
}
