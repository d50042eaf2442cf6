package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// StockMovementRepository defines the interface for the movement audit
// trail. Movements are append-only.
type StockMovementRepository interface {
	// FindByProduct returns movements for one product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindAll returns movements, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// Append persists a new movement record
	Append(ctx context.Context, movement *StockMovement) error

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
