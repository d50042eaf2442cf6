package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for stock-affecting operations.
type Product struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sale_price"`
	Quantity      int64           `gorm:"not null;default:0" json:"quantity"`
	MinQuantity   int64           `gorm:"not null;default:0" json:"min_quantity"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. Stock always starts at zero; units enter
// the system only through purchases or manual adjustments.
func NewProduct(code, name string, purchasePrice, salePrice decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              "pcs",
		PurchasePrice:     purchasePrice,
		SalePrice:         salePrice,
		Quantity:          0,
		MinQuantity:       0,
	}, nil
}

// Update updates the product's basic information and prices.
// Quantity is deliberately untouched; stock changes only through
// invoices and inventory adjustments.
func (p *Product) Update(name, description string, purchasePrice, salePrice decimal.Decimal, minQuantity int64) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if purchasePrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if minQuantity < 0 {
		return shared.NewDomainError("INVALID_MIN_QUANTITY", "Minimum quantity cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.PurchasePrice = purchasePrice
	p.SalePrice = salePrice
	p.MinQuantity = minQuantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetUnit sets the unit of measure
func (p *Product) SetUnit(unit string) error {
	if unit == "" || len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit must be 1-20 characters")
	}
	p.Unit = unit
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IncreaseStock adds qty units to the on-hand quantity
func (p *Product) IncreaseStock(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	p.Quantity += qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// DecreaseStock removes qty units from the on-hand quantity.
// Fails with INSUFFICIENT_STOCK naming the product and the available
// quantity; stock is never allowed to go negative.
func (p *Product) DecreaseStock(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if qty > p.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for product %s: requested %d, available %d", p.Name, qty, p.Quantity))
	}
	p.Quantity -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsLowStock returns true when on-hand quantity is at or below the
// configured minimum
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// IsOutOfStock returns true when nothing is on hand
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// StockValue returns on-hand quantity valued at purchase price
func (p *Product) StockValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(p.Quantity))
}

// UnitMargin returns sale price minus purchase price
func (p *Product) UnitMargin() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
