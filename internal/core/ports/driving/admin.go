package driving

import (
	"context"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// AdminService exposes destructive and observability operations.
type AdminService interface {
	// Clear removes every entry from the knowledge base and the source
	// registry. Destructive; the caller layer is responsible for
	// explicit confirmation.
	Clear(ctx context.Context) error

	// Stats reports the read-only observability surface.
	Stats(ctx context.Context) (*domain.Stats, error)
}
