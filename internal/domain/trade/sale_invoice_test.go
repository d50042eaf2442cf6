package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T) *SaleInvoice {
	t.Helper()
	customerID := uuid.New()
	sale, err := NewSaleInvoice("INV000001", &customerID, "Alice Market")
	require.NoError(t, err)
	return sale
}

func TestSaleInvoice(t *testing.T) {
	t.Run("creates shell with zero totals", func(t *testing.T) {
		sale := newTestSale(t)
		assert.Equal(t, "INV000001", sale.InvoiceNumber)
		assert.True(t, sale.Total.IsZero())
		assert.Equal(t, PaymentStatusUnpaid, sale.Status)
		assert.Empty(t, sale.Items)
	})

	t.Run("fails without invoice number", func(t *testing.T) {
		_, err := NewSaleInvoice("", nil, "")
		require.Error(t, err)
	})

	t.Run("walk-in sale has no customer", func(t *testing.T) {
		sale, err := NewSaleInvoice("INV000002", nil, "")
		require.NoError(t, err)
		assert.Nil(t, sale.CustomerID)
	})

	t.Run("add item freezes price and name", func(t *testing.T) {
		sale := newTestSale(t)
		productID := uuid.New()

		item, err := sale.AddItem(productID, "Mineral Water 1L", 4, decimal.NewFromFloat(1.25))
		require.NoError(t, err)

		assert.Equal(t, "Mineral Water 1L", item.ProductName)
		assert.True(t, item.Amount.Equal(decimal.NewFromFloat(5.00)))
		assert.Equal(t, sale.ID, item.SaleID)
	})

	t.Run("same product on two lines at different prices", func(t *testing.T) {
		sale := newTestSale(t)
		productID := uuid.New()

		_, err := sale.AddItem(productID, "Soap", 1, decimal.NewFromInt(2))
		require.NoError(t, err)
		_, err = sale.AddItem(productID, "Soap", 3, decimal.NewFromFloat(1.50))
		require.NoError(t, err)

		require.Len(t, sale.Items, 2)
		deltas := sale.StockDeltas()
		assert.EqualValues(t, 4, deltas[productID])
	})

	t.Run("finalize derives totals", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Soap", 2, decimal.NewFromInt(3))
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Bread", 1, decimal.NewFromInt(4))
		require.NoError(t, err)

		require.NoError(t, sale.Finalize(decimal.NewFromInt(2), decimal.NewFromInt(5), "cash"))

		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(10)))
		assert.True(t, sale.Total.Equal(decimal.NewFromInt(8)))
		assert.True(t, sale.Remaining.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, PaymentStatusPartial, sale.Status)
		assert.Equal(t, "cash", sale.PaymentMethod)
	})

	t.Run("finalize on empty invoice fails", func(t *testing.T) {
		sale := newTestSale(t)
		require.Error(t, sale.Finalize(decimal.Zero, decimal.Zero, ""))
	})

	t.Run("payment without a method is accepted", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Soap", 1, decimal.NewFromInt(2))
		require.NoError(t, err)

		require.NoError(t, sale.Finalize(decimal.Zero, decimal.NewFromInt(2), ""))
		assert.Equal(t, PaymentStatusPaid, sale.Status)
		assert.Empty(t, sale.PaymentMethod)
	})

	t.Run("payment method cleared on unpaid invoice", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Soap", 1, decimal.NewFromInt(2))
		require.NoError(t, err)

		require.NoError(t, sale.Finalize(decimal.Zero, decimal.Zero, "cash"))
		assert.Empty(t, sale.PaymentMethod)
	})

	t.Run("stock deltas sum item quantities", func(t *testing.T) {
		sale := newTestSale(t)
		waterID, soapID := uuid.New(), uuid.New()
		_, err := sale.AddItem(waterID, "Water", 4, decimal.NewFromInt(1))
		require.NoError(t, err)
		_, err = sale.AddItem(soapID, "Soap", 2, decimal.NewFromInt(2))
		require.NoError(t, err)

		deltas := sale.StockDeltas()
		assert.EqualValues(t, 4, deltas[waterID])
		assert.EqualValues(t, 2, deltas[soapID])
	})
}

func TestPurchaseInvoice(t *testing.T) {
	supplierID := uuid.New()

	t.Run("requires a supplier", func(t *testing.T) {
		_, err := NewPurchaseInvoice("PUR000001", uuid.Nil, "")
		require.Error(t, err)
	})

	t.Run("finalize derives totals", func(t *testing.T) {
		purchase, err := NewPurchaseInvoice("PUR000001", supplierID, "Global Foods Ltd")
		require.NoError(t, err)

		_, err = purchase.AddItem(uuid.New(), "Water case", 10, decimal.NewFromFloat(0.50))
		require.NoError(t, err)
		require.NoError(t, purchase.Finalize(decimal.Zero, decimal.NewFromInt(5), "transfer"))

		assert.True(t, purchase.Total.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, PaymentStatusPaid, purchase.Status)
	})

	t.Run("invalid discount propagates", func(t *testing.T) {
		purchase, err := NewPurchaseInvoice("PUR000002", supplierID, "Global Foods Ltd")
		require.NoError(t, err)

		_, err = purchase.AddItem(uuid.New(), "Water case", 10, decimal.NewFromFloat(0.50))
		require.NoError(t, err)
		err = purchase.Finalize(decimal.NewFromInt(6), decimal.Zero, "")
		require.Error(t, err)
	})
}
