package partner

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// Supplier represents a vendor with an open payable balance.
// Balance is what the business still owes the supplier.
type Supplier struct {
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
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		TotalPurchases:    decimal.Zero,
		Balance:           decimal.Zero,
	}, nil
}

// Update updates the supplier's contact information
func (s *Supplier) Update(name, phone, email, address, notes string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}

	s.Name = name
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ApplyBalanceDelta moves the open balance and lifetime purchase total
// by the given signed amounts. Unclamped, same contract as Customer.
func (s *Supplier) ApplyBalanceDelta(balanceDelta, purchasesDelta decimal.Decimal) {
	s.Balance = s.Balance.Add(balanceDelta)
	s.TotalPurchases = s.TotalPurchases.Add(purchasesDelta)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
