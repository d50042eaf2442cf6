package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
)

// InventoryService handles manual stock adjustments and the movement
// audit trail. Invoice-driven movements are appended by the invoice
// engine; this service only ever records manual ones.
type InventoryService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(scope TransactionScope, logger *zap.Logger) *InventoryService {
	return &InventoryService{scope: scope, logger: logger}
}

// Adjust applies a manual stock adjustment and records the movement.
// Mode "add" and "subtract" treat Quantity as a delta, "set" treats it
// as the target on-hand quantity.
func (s *InventoryService) Adjust(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	var response *AdjustStockResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		before := product.Quantity
		var change int64
		switch req.Mode {
		case ModeAdd:
			change = req.Quantity
		case ModeSubtract:
			change = -req.Quantity
		case ModeSet:
			change = req.Quantity - before
		default:
			return shared.NewDomainError("INVALID_ADJUSTMENT_MODE", "Invalid adjustment mode")
		}
		if change == 0 {
			if req.Mode != ModeSet {
				return shared.ErrInvalidQuantity
			}
			// Setting the on-hand quantity to itself is a valid no-op;
			// nothing moved so no movement is recorded.
			response = &AdjustStockResponse{Quantity: before}
			return nil
		}

		movementType := inventory.MovementAdjustment
		if change > 0 {
			if err := product.IncreaseStock(change); err != nil {
				return err
			}
		} else {
			if err := product.DecreaseStock(-change); err != nil {
				return err
			}
		}

		movement, err := inventory.NewStockMovement(product.ID, product.Name, movementType, before, change, req.Reason)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			movement.WithNotes(req.Notes)
		}

		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		s.logger.Info("stock adjusted",
			zap.String("product_code", product.Code),
			zap.String("mode", string(req.Mode)),
			zap.Int64("before", before),
			zap.Int64("after", movement.QuantityAfter))

		movementResp := ToMovementResponse(movement)
		response = &AdjustStockResponse{
			Movement: &movementResp,
			Quantity: movement.QuantityAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListMovements returns the movement audit trail, newest first
func (s *InventoryService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := buildMovementFilter(filter)

	var (
		movements []inventory.StockMovement
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if filter.ProductID != nil {
			movements, err = repos.MovementRepo().FindByProduct(ctx, *filter.ProductID, domainFilter)
		} else {
			movements, err = repos.MovementRepo().FindAll(ctx, domainFilter)
		}
		if err != nil {
			return err
		}
		total, err = repos.MovementRepo().Count(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// MovementsForProduct returns the audit trail of one product
func (s *InventoryService) MovementsForProduct(ctx context.Context, productID uuid.UUID) ([]MovementResponse, error) {
	var movements []inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.ProductRepo().FindByID(ctx, productID); err != nil {
			return err
		}
		var err error
		movements, err = repos.MovementRepo().FindByProduct(ctx, productID, shared.DefaultFilter())
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

func buildMovementFilter(filter MovementListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "movement_date"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.MovementType != "" {
		domainFilter.Filters["movement_type"] = filter.MovementType
	}
	if filter.ReferenceType != "" {
		domainFilter.Filters["reference_type"] = filter.ReferenceType
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}
	return domainFilter
}
