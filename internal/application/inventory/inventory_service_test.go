package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
)

type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.Code == code {
			clone := *product
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *stubProductRepo) FindLowStock(context.Context) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, product := range r.products {
		if product.IsLowStock() {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Save(_ context.Context, product *catalog.Product) error {
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	return err == nil, nil
}

func (r *stubProductRepo) NextCode(context.Context) (string, error) {
	return fmt.Sprintf("PROD%03d", len(r.products)+1), nil
}

type stubMovementRepo struct {
	movements []inventory.StockMovement
}

func (r *stubMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubMovementRepo) FindAll(context.Context, shared.Filter) ([]inventory.StockMovement, error) {
	return append([]inventory.StockMovement(nil), r.movements...), nil
}

func (r *stubMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *stubMovementRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.movements)), nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newAdjustFixture(t *testing.T, qty int64) (*InventoryService, *catalog.Product, *stubProductRepo, *stubMovementRepo) {
	t.Helper()
	product, err := catalog.NewProduct("PROD001", "Mineral Water 1L",
		mustDecimal("0.50"), mustDecimal("1.25"))
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, product.IncreaseStock(qty))
	}

	productRepo := &stubProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}}
	movementRepo := &stubMovementRepo{}
	service := NewInventoryService(NewNoOpTransactionScope(productRepo, movementRepo), zap.NewNop())
	return service, product, productRepo, movementRepo
}

func TestInventoryServiceAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("add increases stock and records the movement", func(t *testing.T) {
		service, product, productRepo, movementRepo := newAdjustFixture(t, 10)

		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Mode:      ModeAdd,
			Quantity:  5,
			Reason:    "stock_count",
		})
		require.NoError(t, err)

		assert.EqualValues(t, 15, resp.Quantity)
		assert.EqualValues(t, 15, productRepo.products[product.ID].Quantity)
		require.Len(t, movementRepo.movements, 1)
		assert.Equal(t, inventory.MovementAdjustment, movementRepo.movements[0].MovementType)
		assert.EqualValues(t, 5, movementRepo.movements[0].QuantityChange)
		assert.Equal(t, "stock_count", movementRepo.movements[0].Reason)
	})

	t.Run("subtract below zero fails without a movement", func(t *testing.T) {
		service, product, productRepo, movementRepo := newAdjustFixture(t, 3)

		_, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Mode:      ModeSubtract,
			Quantity:  5,
			Reason:    "damage",
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.EqualValues(t, 3, productRepo.products[product.ID].Quantity)
		assert.Empty(t, movementRepo.movements)
	})

	t.Run("set records the delta between target and current", func(t *testing.T) {
		service, product, _, movementRepo := newAdjustFixture(t, 10)

		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Mode:      ModeSet,
			Quantity:  4,
			Reason:    "stock_count",
			Notes:     "annual count",
		})
		require.NoError(t, err)

		assert.EqualValues(t, 4, resp.Quantity)
		require.Len(t, movementRepo.movements, 1)
		assert.EqualValues(t, -6, movementRepo.movements[0].QuantityChange)
		assert.Equal(t, "annual count", movementRepo.movements[0].Notes)
	})

	t.Run("set to the current quantity is a no-op", func(t *testing.T) {
		service, product, productRepo, movementRepo := newAdjustFixture(t, 10)

		resp, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Mode:      ModeSet,
			Quantity:  10,
			Reason:    "stock_count",
		})
		require.NoError(t, err)

		assert.EqualValues(t, 10, resp.Quantity)
		assert.Nil(t, resp.Movement)
		assert.EqualValues(t, 10, productRepo.products[product.ID].Quantity)
		assert.Empty(t, movementRepo.movements)
	})

	t.Run("add of zero is rejected", func(t *testing.T) {
		service, product, _, _ := newAdjustFixture(t, 10)

		_, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Mode:      ModeAdd,
			Quantity:  0,
			Reason:    "stock_count",
		})
		require.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("unknown product fails with not found", func(t *testing.T) {
		service, _, _, _ := newAdjustFixture(t, 10)

		_, err := service.Adjust(ctx, AdjustStockRequest{
			ProductID: uuid.New(),
			Mode:      ModeAdd,
			Quantity:  1,
			Reason:    "stock_count",
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInventoryServiceMovements(t *testing.T) {
	ctx := context.Background()
	service, product, _, _ := newAdjustFixture(t, 10)

	_, err := service.Adjust(ctx, AdjustStockRequest{
		ProductID: product.ID, Mode: ModeAdd, Quantity: 2, Reason: "restock",
	})
	require.NoError(t, err)
	_, err = service.Adjust(ctx, AdjustStockRequest{
		ProductID: product.ID, Mode: ModeSubtract, Quantity: 1, Reason: "damage",
	})
	require.NoError(t, err)

	movements, total, err := service.ListMovements(ctx, MovementListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, movements, 2)

	byProduct, err := service.MovementsForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	_, err = service.MovementsForProduct(ctx, uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}
