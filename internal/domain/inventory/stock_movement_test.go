package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/shared"
)

func TestNewStockMovement(t *testing.T) {
	productID := uuid.New()

	t.Run("inbound movement", func(t *testing.T) {
		movement, err := NewStockMovement(productID, "Mineral Water 1L", MovementIn, 10, 5, "purchase")
		require.NoError(t, err)

		assert.EqualValues(t, 10, movement.QuantityBefore)
		assert.EqualValues(t, 5, movement.QuantityChange)
		assert.EqualValues(t, 15, movement.QuantityAfter)
		assert.Equal(t, RefManual, movement.ReferenceType)
	})

	t.Run("outbound movement carries negative change", func(t *testing.T) {
		movement, err := NewStockMovement(productID, "Mineral Water 1L", MovementOut, 10, -4, "sale")
		require.NoError(t, err)
		assert.EqualValues(t, 6, movement.QuantityAfter)
	})

	t.Run("movement below zero is rejected", func(t *testing.T) {
		_, err := NewStockMovement(productID, "Mineral Water 1L", MovementOut, 3, -5, "sale")
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("zero change is rejected", func(t *testing.T) {
		_, err := NewStockMovement(productID, "Mineral Water 1L", MovementAdjustment, 3, 0, "adjustment")
		require.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("nil product is rejected", func(t *testing.T) {
		_, err := NewStockMovement(uuid.Nil, "Mineral Water 1L", MovementIn, 0, 1, "purchase")
		require.Error(t, err)
	})

	t.Run("reference is attached", func(t *testing.T) {
		saleID := uuid.New()
		movement, err := NewStockMovement(productID, "Mineral Water 1L", MovementOut, 10, -1, "sale")
		require.NoError(t, err)

		movement.WithReference(RefSale, saleID).WithNotes("Sale INV000007")
		assert.Equal(t, RefSale, movement.ReferenceType)
		require.NotNil(t, movement.ReferenceID)
		assert.Equal(t, saleID, *movement.ReferenceID)
	})
}
