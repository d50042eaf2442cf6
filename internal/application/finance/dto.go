package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/finance"
)

// CashEntryRequest represents a manual deposit or withdrawal
type CashEntryRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// CashListFilter represents query parameters for listing ledger entries
type CashListFilter struct {
	TransactionType string     `form:"transaction_type" binding:"omitempty,oneof=deposit withdrawal sale_income purchase_expense"`
	ReferenceType   string     `form:"reference_type" binding:"omitempty,oneof=manual sale purchase"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
}

// CashTransactionResponse represents a ledger entry in API responses
type CashTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// BalanceResponse reports the current running balance
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	AsOf    time.Time       `json:"as_of"`
}

// ToCashTransactionResponse converts a ledger entry to a response DTO
func ToCashTransactionResponse(t *finance.CashTransaction) CashTransactionResponse {
	return CashTransactionResponse{
		ID:              t.ID,
		TransactionType: t.TransactionType.String(),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		ReferenceType:   string(t.ReferenceType),
		ReferenceID:     t.ReferenceID,
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate,
	}
}

// ToCashTransactionResponses converts a slice of ledger entries
func ToCashTransactionResponses(entries []finance.CashTransaction) []CashTransactionResponse {
	responses := make([]CashTransactionResponse, len(entries))
	for i := range entries {
		responses[i] = ToCashTransactionResponse(&entries[i])
	}
	return responses
}
