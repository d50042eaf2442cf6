package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// CashTransactionType represents the kind of cash movement
type CashTransactionType string

const (
	// CashTypeDeposit represents capital deposited into the drawer
	CashTypeDeposit CashTransactionType = "deposit"
	// CashTypeWithdrawal represents capital withdrawn from the drawer
	CashTypeWithdrawal CashTransactionType = "withdrawal"
	// CashTypeSaleIncome represents cash received from a sale
	CashTypeSaleIncome CashTransactionType = "sale_income"
	// CashTypePurchaseExpense represents cash paid on a purchase
	CashTypePurchaseExpense CashTransactionType = "purchase_expense"
)

// String returns the string representation of CashTransactionType
func (t CashTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t CashTransactionType) IsValid() bool {
	switch t {
	case CashTypeDeposit, CashTypeWithdrawal, CashTypeSaleIncome, CashTypePurchaseExpense:
		return true
	}
	return false
}

// IsInflow returns true if this transaction type raises the cash balance
func (t CashTransactionType) IsInflow() bool {
	return t == CashTypeDeposit || t == CashTypeSaleIncome
}

// CashReferenceType identifies the document behind a ledger entry
type CashReferenceType string

const (
	CashRefManual   CashReferenceType = "manual"
	CashRefSale     CashReferenceType = "sale"
	CashRefPurchase CashReferenceType = "purchase"
)

// CashTransaction is one immutable row of the cash ledger. The ledger
// is append-only: corrections are made by appending a compensating
// entry, never by editing or deleting history.
type CashTransaction struct {
	shared.BaseEntity
	TransactionType CashTransactionType `gorm:"type:varchar(30);not null;index" json:"transaction_type"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"amount"`
	BalanceBefore   decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	ReferenceType   CashReferenceType   `gorm:"type:varchar(20);not null;default:'manual'" json:"reference_type"`
	ReferenceID     *uuid.UUID          `gorm:"type:uuid;index" json:"reference_id"`
	Notes           string              `gorm:"type:text" json:"notes"`
	TransactionDate time.Time           `gorm:"not null;index" json:"transaction_date"`
}

// TableName returns the table name for GORM
func (CashTransaction) TableName() string {
	return "cash_transactions"
}

// NewCashTransaction creates a ledger entry from the running balance.
// Amount must be positive; the direction comes from the type. No
// balance floor is enforced here so that invoice reversals can always
// append their compensating entry; manual withdrawals go through
// CreateWithdrawal which does enforce the floor.
func NewCashTransaction(
	txType CashTransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
) (*CashTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid cash transaction type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	balanceAfter := balanceBefore.Add(amountSigned(txType, amount))

	return &CashTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		ReferenceType:   CashRefManual,
		TransactionDate: time.Now(),
	}, nil
}

// WithReference attaches the source document to the entry
func (t *CashTransaction) WithReference(refType CashReferenceType, refID uuid.UUID) *CashTransaction {
	t.ReferenceType = refType
	t.ReferenceID = &refID
	return t
}

// WithNotes sets free-form notes on the entry
func (t *CashTransaction) WithNotes(notes string) *CashTransaction {
	t.Notes = notes
	return t
}

// SignedAmount returns the amount with its direction applied
func (t *CashTransaction) SignedAmount() decimal.Decimal {
	return amountSigned(t.TransactionType, t.Amount)
}

// ReversalType returns the type of the compensating entry that undoes
// this one. Reversing a sale's income is a withdrawal, reversing a
// purchase's expense is a deposit.
func (t *CashTransaction) ReversalType() CashTransactionType {
	if t.TransactionType.IsInflow() {
		return CashTypeWithdrawal
	}
	return CashTypeDeposit
}

// CreateDeposit creates a manual capital deposit entry
func CreateDeposit(amount, balanceBefore decimal.Decimal) (*CashTransaction, error) {
	return NewCashTransaction(CashTypeDeposit, amount, balanceBefore)
}

// CreateWithdrawal creates a manual capital withdrawal entry.
// Fails with INSUFFICIENT_CASH when the amount exceeds the running
// balance; no entry is produced in that case.
func CreateWithdrawal(amount, balanceBefore decimal.Decimal) (*CashTransaction, error) {
	if amount.GreaterThan(balanceBefore) {
		return nil, shared.NewDomainError("INSUFFICIENT_CASH",
			"Insufficient cash balance: available "+balanceBefore.StringFixed(2))
	}
	return NewCashTransaction(CashTypeWithdrawal, amount, balanceBefore)
}

func amountSigned(txType CashTransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType.IsInflow() {
		return amount
	}
	return amount.Neg()
}
