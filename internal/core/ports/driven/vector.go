package driven

import (
	"context"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// VectorIndex owns the durable store of (chunk, vector) pairs and
// answers similarity queries over it.
//
// Implementations must be safe for concurrent use with single-writer /
// multiple-reader semantics: a Search never observes a partially
// applied Add, and Add/Clear wait for in-flight Searches.
type VectorIndex interface {
	// Add validates that every entry's vector matches the configured
	// dimension (domain.ErrDimensionMismatch rejects the whole call,
	// leaving the index unchanged), appends the entries, and persists
	// durably before returning.
	Add(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns up to k hits ranked by descending cosine
	// similarity. Equal scores preserve insertion order.
	Search(ctx context.Context, query []float32, k int) ([]domain.Retrieved, error)

	// Clear removes all entries and persists an empty index.
	Clear(ctx context.Context) error

	// Stats reports entry count, dimension and persistence state.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
