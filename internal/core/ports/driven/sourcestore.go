package driven

import (
	"context"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// SourceStore persists the registry of ingested sources.
// It backs the stats surface only; the vector index is the single
// owner of the searchable content.
type SourceStore interface {
	// Save stores or updates a source record.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources, most recently ingested first.
	List(ctx context.Context) ([]domain.Source, error)

	// Count returns the number of registered sources.
	Count(ctx context.Context) (int, error)

	// Clear removes all source records.
	Clear(ctx context.Context) error
}
