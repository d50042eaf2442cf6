package finance

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
)

// CashTransactionRepository defines the interface for the cash ledger.
// The ledger is append-only; there are no update or delete operations.
type CashTransactionRepository interface {
	// FindLatest returns the most recent ledger entry, or nil when the
	// ledger is empty. The running balance is its BalanceAfter.
	FindLatest(ctx context.Context) (*CashTransaction, error)

	// FindAll returns ledger entries, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]CashTransaction, error)

	// Append persists a new ledger entry
	Append(ctx context.Context, tx *CashTransaction) error

	// Count counts ledger entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
