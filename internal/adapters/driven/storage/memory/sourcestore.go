// Package memory provides in-memory implementations of the storage
// ports. Nothing survives a restart; useful for tests and ephemeral
// runs without a data directory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
	}
}

// Save stores or updates a source record.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// List returns all sources, most recently ingested first.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].IngestedAt.Equal(sources[j].IngestedAt) {
			return sources[i].ID < sources[j].ID
		}
		return sources[i].IngestedAt.After(sources[j].IngestedAt)
	})
	return sources, nil
}

// Count returns the number of registered sources.
func (s *SourceStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources), nil
}

// Clear removes all source records.
func (s *SourceStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = make(map[string]domain.Source)
	return nil
}
