package services

import (
	"context"
	"fmt"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/core/ports/driving"
	"github.com/ferrule-labs/quaero/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.AdminService = (*AdminService)(nil)

// AdminService implements the destructive and observability operations.
type AdminService struct {
	vectorIndex driven.VectorIndex
	sourceStore driven.SourceStore
	embedder    *Embedder
	generator   *Generator
}

// NewAdminService creates an admin service.
func NewAdminService(
	vectorIndex driven.VectorIndex,
	sourceStore driven.SourceStore,
	embedder *Embedder,
	generator *Generator,
) *AdminService {
	return &AdminService{
		vectorIndex: vectorIndex,
		sourceStore: sourceStore,
		embedder:    embedder,
		generator:   generator,
	}
}

// Clear removes everything from the vector index and the source
// registry. Confirmation is the caller layer's responsibility.
func (s *AdminService) Clear(ctx context.Context) error {
	if err := s.vectorIndex.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if s.sourceStore != nil {
		if err := s.sourceStore.Clear(ctx); err != nil {
			return fmt.Errorf("clearing source registry: %w", err)
		}
	}
	logger.Info("Knowledge base cleared")
	return nil
}

// Stats aggregates the read-only observability surface.
func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	indexStats, err := s.vectorIndex.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}

	sources := 0
	if s.sourceStore != nil {
		sources, err = s.sourceStore.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting sources: %w", err)
		}
	}

	return &domain.Stats{
		Index:      indexStats,
		Sources:    sources,
		Embedding:  s.embedder.Stats(),
		Generation: s.generator.Stats(),
	}, nil
}
