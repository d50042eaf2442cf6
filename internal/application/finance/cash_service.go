package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/shared"
)

// CashService handles manual drawer operations and ledger queries.
// Invoice-driven entries are appended by the invoice engine; this
// service records manual deposits and withdrawals only.
type CashService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewCashService creates a new CashService
func NewCashService(scope TransactionScope, logger *zap.Logger) *CashService {
	return &CashService{scope: scope, logger: logger}
}

// Deposit appends a manual deposit entry
func (s *CashService) Deposit(ctx context.Context, req CashEntryRequest) (*CashTransactionResponse, error) {
	return s.appendManual(ctx, finance.CashTypeDeposit, req)
}

// Withdraw appends a manual withdrawal entry. Withdrawing more than
// the running balance fails with INSUFFICIENT_CASH.
func (s *CashService) Withdraw(ctx context.Context, req CashEntryRequest) (*CashTransactionResponse, error) {
	return s.appendManual(ctx, finance.CashTypeWithdrawal, req)
}

func (s *CashService) appendManual(ctx context.Context, txType finance.CashTransactionType, req CashEntryRequest) (*CashTransactionResponse, error) {
	var response *CashTransactionResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := currentBalance(ctx, repos.CashRepo())
		if err != nil {
			return err
		}

		var entry *finance.CashTransaction
		if txType == finance.CashTypeDeposit {
			entry, err = finance.CreateDeposit(req.Amount, balance)
		} else {
			entry, err = finance.CreateWithdrawal(req.Amount, balance)
		}
		if err != nil {
			return err
		}
		if req.Notes != "" {
			entry.WithNotes(req.Notes)
		}

		if err := repos.CashRepo().Append(ctx, entry); err != nil {
			return err
		}

		s.logger.Info("manual cash entry",
			zap.String("type", txType.String()),
			zap.String("amount", req.Amount.String()),
			zap.String("balance", entry.BalanceAfter.String()))

		r := ToCashTransactionResponse(entry)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Balance returns the current running balance of the drawer
func (s *CashService) Balance(ctx context.Context) (*BalanceResponse, error) {
	var response *BalanceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := currentBalance(ctx, repos.CashRepo())
		if err != nil {
			return err
		}
		response = &BalanceResponse{Balance: balance, AsOf: time.Now()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List returns ledger entries, newest first
func (s *CashService) List(ctx context.Context, filter CashListFilter) ([]CashTransactionResponse, int64, error) {
	domainFilter := buildCashFilter(filter)

	var (
		entries []finance.CashTransaction
		total   int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entries, err = repos.CashRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.CashRepo().Count(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToCashTransactionResponses(entries), total, nil
}

// currentBalance reads the running balance from the newest entry. An
// empty ledger means a zero balance.
func currentBalance(ctx context.Context, repo finance.CashTransactionRepository) (decimal.Decimal, error) {
	latest, err := repo.FindLatest(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.BalanceAfter, nil
}

func buildCashFilter(filter CashListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "transaction_date"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.TransactionType != "" {
		domainFilter.Filters["transaction_type"] = filter.TransactionType
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
