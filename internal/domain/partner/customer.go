package partner

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// Customer represents a buyer with an open receivable balance.
// Balance is what the customer still owes; it moves with every sale
// create, update, and delete, and may go negative after a reversal
// of an overpaid invoice.
type Customer struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name           string          `gorm:"type:varchar(200);not null" json:"name"`
	Phone          string          `gorm:"type:varchar(50);index" json:"phone"`
	Email          string          `gorm:"type:varchar(200)" json:"email"`
	Address        string          `gorm:"type:text" json:"address"`
	Notes          string          `gorm:"type:text" json:"notes"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_purchases"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(code, name string) (*Customer, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		TotalPurchases:    decimal.Zero,
		Balance:           decimal.Zero,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, email, address, notes string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ApplyBalanceDelta moves the open balance and lifetime purchase total
// by the given signed amounts. Reversals apply the exact negation of
// the original deltas, so the balance is intentionally unclamped.
func (c *Customer) ApplyBalanceDelta(balanceDelta, purchasesDelta decimal.Decimal) {
	c.Balance = c.Balance.Add(balanceDelta)
	c.TotalPurchases = c.TotalPurchases.Add(purchasesDelta)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// HasDebt returns true when the customer owes money
func (c *Customer) HasDebt() bool {
	return c.Balance.IsPositive()
}

func validatePartnerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	return nil
}

func validatePartnerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
