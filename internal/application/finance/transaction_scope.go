package finance

import (
	"context"

	"github.com/pos/backend/internal/domain/finance"
)

// TransactionScope serializes manual ledger writes. Reading the latest
// running balance and appending the next entry happen in one
// transaction so concurrent writes cannot fork the balance chain.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repository
// within one transaction.
type TransactionalRepositories interface {
	CashRepo() finance.CashTransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests that supply in-memory repositories.
type NoOpTransactionScope struct {
	cashRepo finance.CashTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository
func NewNoOpTransactionScope(cashRepo finance.CashTransactionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{cashRepo: cashRepo}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CashRepo() finance.CashTransactionRepository { return s.cashRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
