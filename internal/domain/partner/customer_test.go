package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer with zero balances", func(t *testing.T) {
		customer, err := NewCustomer("CUST001", "Alice Market")
		require.NoError(t, err)

		assert.Equal(t, "CUST001", customer.Code)
		assert.Equal(t, "Alice Market", customer.Name)
		assert.True(t, customer.Balance.IsZero())
		assert.True(t, customer.TotalPurchases.IsZero())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewCustomer("", "Alice Market")
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCustomer("CUST001", "")
		require.Error(t, err)
	})
}

func TestCustomerApplyBalanceDelta(t *testing.T) {
	t.Run("credit sale raises balance and purchases", func(t *testing.T) {
		customer, err := NewCustomer("CUST001", "Alice Market")
		require.NoError(t, err)

		customer.ApplyBalanceDelta(decimal.NewFromInt(30), decimal.NewFromInt(100))

		assert.True(t, customer.Balance.Equal(decimal.NewFromInt(30)))
		assert.True(t, customer.TotalPurchases.Equal(decimal.NewFromInt(100)))
		assert.True(t, customer.HasDebt())
	})

	t.Run("reversal is the exact negation", func(t *testing.T) {
		customer, err := NewCustomer("CUST001", "Alice Market")
		require.NoError(t, err)

		customer.ApplyBalanceDelta(decimal.NewFromInt(30), decimal.NewFromInt(100))
		customer.ApplyBalanceDelta(decimal.NewFromInt(-30), decimal.NewFromInt(-100))

		assert.True(t, customer.Balance.IsZero())
		assert.True(t, customer.TotalPurchases.IsZero())
	})

	t.Run("balance may go negative", func(t *testing.T) {
		customer, err := NewCustomer("CUST001", "Alice Market")
		require.NoError(t, err)

		customer.ApplyBalanceDelta(decimal.NewFromInt(-20), decimal.Zero)
		assert.True(t, customer.Balance.Equal(decimal.NewFromInt(-20)))
		assert.False(t, customer.HasDebt())
	})
}

func TestSupplier(t *testing.T) {
	t.Run("creates supplier", func(t *testing.T) {
		supplier, err := NewSupplier("SUPP001", "Global Foods Ltd")
		require.NoError(t, err)
		assert.Equal(t, "SUPP001", supplier.Code)
		assert.True(t, supplier.Balance.IsZero())
	})

	t.Run("payable moves with deltas", func(t *testing.T) {
		supplier, err := NewSupplier("SUPP001", "Global Foods Ltd")
		require.NoError(t, err)

		supplier.ApplyBalanceDelta(decimal.NewFromInt(250), decimal.NewFromInt(400))
		assert.True(t, supplier.Balance.Equal(decimal.NewFromInt(250)))

		supplier.ApplyBalanceDelta(decimal.NewFromInt(-250), decimal.NewFromInt(-400))
		assert.True(t, supplier.Balance.IsZero())
		assert.True(t, supplier.TotalPurchases.IsZero())
	})
}
