package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/shared"
)

func TestNewCashTransaction(t *testing.T) {
	t.Run("deposit raises the balance", func(t *testing.T) {
		tx, err := NewCashTransaction(CashTypeDeposit, decimal.NewFromInt(100), decimal.NewFromInt(50))
		require.NoError(t, err)

		assert.True(t, tx.BalanceBefore.Equal(decimal.NewFromInt(50)))
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(150)))
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("purchase expense lowers the balance", func(t *testing.T) {
		tx, err := NewCashTransaction(CashTypePurchaseExpense, decimal.NewFromInt(30), decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(70)))
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(-30)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewCashTransaction(CashTypeDeposit, decimal.Zero, decimal.Zero)
		require.Error(t, err)

		_, err = NewCashTransaction(CashTypeDeposit, decimal.NewFromInt(-5), decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		_, err := NewCashTransaction("transfer", decimal.NewFromInt(10), decimal.Zero)
		require.Error(t, err)
	})

	t.Run("reference is attached", func(t *testing.T) {
		saleID := uuid.New()
		tx, err := NewCashTransaction(CashTypeSaleIncome, decimal.NewFromInt(25), decimal.Zero)
		require.NoError(t, err)

		tx.WithReference(CashRefSale, saleID).WithNotes("Sale INV000001")
		assert.Equal(t, CashRefSale, tx.ReferenceType)
		require.NotNil(t, tx.ReferenceID)
		assert.Equal(t, saleID, *tx.ReferenceID)
	})
}

func TestCreateWithdrawal(t *testing.T) {
	t.Run("withdrawal within balance succeeds", func(t *testing.T) {
		tx, err := CreateWithdrawal(decimal.NewFromInt(40), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(60)))
	})

	t.Run("withdrawal beyond balance fails with insufficient cash", func(t *testing.T) {
		_, err := CreateWithdrawal(decimal.NewFromInt(150), decimal.NewFromInt(100))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_CASH", domainErr.Code)
	})

	t.Run("withdrawal of the full balance succeeds", func(t *testing.T) {
		tx, err := CreateWithdrawal(decimal.NewFromInt(100), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, tx.BalanceAfter.IsZero())
	})
}

func TestReversalType(t *testing.T) {
	t.Run("sale income reverses as withdrawal", func(t *testing.T) {
		tx, err := NewCashTransaction(CashTypeSaleIncome, decimal.NewFromInt(25), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, CashTypeWithdrawal, tx.ReversalType())
	})

	t.Run("purchase expense reverses as deposit", func(t *testing.T) {
		tx, err := NewCashTransaction(CashTypePurchaseExpense, decimal.NewFromInt(25), decimal.NewFromInt(25))
		require.NoError(t, err)
		assert.Equal(t, CashTypeDeposit, tx.ReversalType())
	})
}

func TestLedgerRunningBalance(t *testing.T) {
	// balance_after of each entry equals balance_before plus the signed
	// amount, folded across the whole ledger
	balance := decimal.Zero
	steps := []struct {
		txType CashTransactionType
		amount int64
	}{
		{CashTypeDeposit, 500},
		{CashTypeSaleIncome, 120},
		{CashTypePurchaseExpense, 300},
		{CashTypeWithdrawal, 50},
	}

	for _, step := range steps {
		tx, err := NewCashTransaction(step.txType, decimal.NewFromInt(step.amount), balance)
		require.NoError(t, err)
		assert.True(t, tx.BalanceAfter.Equal(tx.BalanceBefore.Add(tx.SignedAmount())))
		balance = tx.BalanceAfter
	}

	assert.True(t, balance.Equal(decimal.NewFromInt(270)))
}
