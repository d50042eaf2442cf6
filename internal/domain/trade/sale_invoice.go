package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// SaleItem represents a line item in a sale invoice. Unit price and
// product name are frozen at invoice time so later catalog edits do
// not rewrite history.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a sale line item
func NewSaleItem(saleID, productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}, nil
}

// SaleInvoice is the aggregate root for a sale. Its money fields are
// always derived with ComputeTotals; they are never set directly.
type SaleInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName  string          `gorm:"type:varchar(200)" json:"customer_name"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	Paid          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid"`
	Remaining     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"remaining"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(30)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	InvoiceDate   time.Time       `gorm:"not null;index" json:"invoice_date"`
}

// TableName returns the table name for GORM
func (SaleInvoice) TableName() string {
	return "sales"
}

// NewSaleInvoice creates a sale invoice shell. Items are added with
// AddItem and money fields settle in Finalize.
func NewSaleInvoice(invoiceNumber string, customerID *uuid.UUID, customerName string) (*SaleInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}

	return &SaleInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]SaleItem, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Total:             decimal.Zero,
		Paid:              decimal.Zero,
		Remaining:         decimal.Zero,
		Status:            PaymentStatusUnpaid,
		InvoiceDate:       time.Now(),
	}, nil
}

// AddItem appends a line item. A product may appear on more than one
// line, so the same product can be sold at different prices on one
// invoice.
func (s *SaleInvoice) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*SaleItem, error) {
	item, err := NewSaleItem(s.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.UpdatedAt = time.Now()

	return item, nil
}

// Finalize derives the money fields from the current items, discount,
// and paid amount. The payment method is stored only when money
// changed hands.
func (s *SaleInvoice) Finalize(discount, paid decimal.Decimal, paymentMethod string) error {
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Invoice must have at least one item")
	}

	totals, err := ComputeTotals(s.lineAmounts(), discount, paid)
	if err != nil {
		return err
	}

	s.Subtotal = totals.Subtotal
	s.Discount = totals.Discount
	s.Total = totals.Total
	s.Paid = totals.Paid
	s.Remaining = totals.Remaining
	s.Status = totals.Status
	if paid.IsPositive() {
		s.PaymentMethod = paymentMethod
	} else {
		s.PaymentMethod = ""
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ResetItems clears the line items so an update can rebuild them.
// Totals are stale until the next Finalize.
func (s *SaleInvoice) ResetItems() {
	s.Items = make([]SaleItem, 0)
	s.UpdatedAt = time.Now()
}

// SetCustomer repoints the invoice at a different customer
func (s *SaleInvoice) SetCustomer(customerID *uuid.UUID, customerName string) {
	s.CustomerID = customerID
	s.CustomerName = customerName
	s.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes on the invoice
func (s *SaleInvoice) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// SetInvoiceDate backdates or postdates the invoice. New invoices
// default to the creation time.
func (s *SaleInvoice) SetInvoiceDate(date time.Time) {
	s.InvoiceDate = date
	s.UpdatedAt = time.Now()
}

// StockDeltas returns the per-product quantity this invoice removed
// from stock. The reversal plan is the negation of this map.
func (s *SaleInvoice) StockDeltas() map[uuid.UUID]int64 {
	deltas := make(map[uuid.UUID]int64, len(s.Items))
	for _, item := range s.Items {
		deltas[item.ProductID] += item.Quantity
	}
	return deltas
}

func (s *SaleInvoice) lineAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(s.Items))
	for i, item := range s.Items {
		amounts[i] = item.Amount
	}
	return amounts
}
