// Package file provides a file-persisted vector index with cosine
// similarity search. The whole index lives in memory and every mutation
// writes a full snapshot via the temp-file-then-rename protocol, so a
// crash mid-write never corrupts the on-disk file.
package file

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultFileName is the index file name under the data directory.
const DefaultFileName = "index.qdx"

// Index is a durable in-memory vector index.
//
// Concurrency follows single-writer/multiple-reader semantics: Search
// and Stats take the read lock, Add and Clear the write lock, so a
// search never observes a partially applied mutation.
type Index struct {
	mu            sync.RWMutex
	path          string
	dims          int
	entries       []domain.IndexEntry
	lastPersisted time.Time
}

// New creates an index persisted at path for vectors of the given
// dimension. An existing index file is loaded; an unreadable or
// structurally invalid file logs a warning and the index starts empty
// rather than refusing to start.
func New(path string, dims int) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: index path is required", domain.ErrInvalidInput)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx := &Index{
		path: path,
		dims: dims,
	}

	if err := idx.load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Index file %s could not be loaded, starting with an empty index: %v",
			path, err)
		idx.entries = nil
	}

	return idx, nil
}

// Add validates, appends and persists the entries. A dimension mismatch
// on any entry rejects the whole call; a persistence failure rolls the
// in-memory state back, so the index and its file never diverge.
func (x *Index) Add(_ context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	for i := range entries {
		if len(entries[i].Vector) != x.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, i, len(entries[i].Vector), x.dims)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	prev := len(x.entries)
	x.entries = append(x.entries, entries...)

	if err := x.persistLocked(); err != nil {
		x.entries = x.entries[:prev]
		return fmt.Errorf("persisting index: %w", err)
	}
	return nil
}

// Search returns up to k entries ranked by descending cosine similarity
// against the query vector. Equal scores preserve insertion order.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]domain.Retrieved, error) {
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(query), x.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]domain.Retrieved, 0, len(x.entries))
	for i := range x.entries {
		results = append(results, domain.Retrieved{
			Chunk: x.entries[i].Chunk,
			Score: cosine(query, x.entries[i].Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i
	}

	return results, nil
}

// Clear removes all entries and persists an empty index.
func (x *Index) Clear(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	prev := x.entries
	x.entries = nil

	if err := x.persistLocked(); err != nil {
		x.entries = prev
		return fmt.Errorf("persisting cleared index: %w", err)
	}
	return nil
}

// Stats reports the index's current state.
func (x *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return domain.IndexStats{
		Entries:       len(x.entries),
		Dimensions:    x.dims,
		LastPersisted: x.lastPersisted,
		Path:          x.path,
	}, nil
}

// Close releases resources. Every mutation persists eagerly, so there
// is nothing to flush.
func (*Index) Close() error {
	return nil
}

// cosine computes cosine similarity between two equal-length vectors.
// Vectors are compared as-is, without normalisation.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
