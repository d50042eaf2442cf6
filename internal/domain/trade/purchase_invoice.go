package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// PurchaseItem represents a line item in a purchase invoice.
// Unit cost and product name are frozen at invoice time.
type PurchaseItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a purchase line item
func NewPurchaseItem(purchaseID, productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*PurchaseItem, error) {
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

	return &PurchaseItem{
		ID:          uuid.New(),
		PurchaseID:  purchaseID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}, nil
}

// PurchaseInvoice is the aggregate root for a purchase from a
// supplier. Money fields are always derived with ComputeTotals.
type PurchaseInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	SupplierName  string          `gorm:"type:varchar(200)" json:"supplier_name"`
	Items         []PurchaseItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
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
func (PurchaseInvoice) TableName() string {
	return "purchases"
}

// NewPurchaseInvoice creates a purchase invoice shell
func NewPurchaseInvoice(invoiceNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	return &PurchaseInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseItem, 0),
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
// line, so one delivery can carry the same product at different costs.
func (p *PurchaseInvoice) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*PurchaseItem, error) {
	item, err := NewPurchaseItem(p.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	p.Items = append(p.Items, *item)
	p.UpdatedAt = time.Now()

	return item, nil
}

// Finalize derives the money fields from the current items, discount,
// and paid amount. The payment method is stored only when money
// changed hands.
func (p *PurchaseInvoice) Finalize(discount, paid decimal.Decimal, paymentMethod string) error {
	if len(p.Items) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Invoice must have at least one item")
	}

	totals, err := ComputeTotals(p.lineAmounts(), discount, paid)
	if err != nil {
		return err
	}

	p.Subtotal = totals.Subtotal
	p.Discount = totals.Discount
	p.Total = totals.Total
	p.Paid = totals.Paid
	p.Remaining = totals.Remaining
	p.Status = totals.Status
	if paid.IsPositive() {
		p.PaymentMethod = paymentMethod
	} else {
		p.PaymentMethod = ""
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ResetItems clears the line items so an update can rebuild them.
// Totals are stale until the next Finalize.
func (p *PurchaseInvoice) ResetItems() {
	p.Items = make([]PurchaseItem, 0)
	p.UpdatedAt = time.Now()
}

// SetSupplier repoints the invoice at a different supplier
func (p *PurchaseInvoice) SetSupplier(supplierID uuid.UUID, supplierName string) {
	p.SupplierID = supplierID
	p.SupplierName = supplierName
	p.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes on the invoice
func (p *PurchaseInvoice) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}

// SetInvoiceDate backdates or postdates the invoice. New invoices
// default to the creation time.
func (p *PurchaseInvoice) SetInvoiceDate(date time.Time) {
	p.InvoiceDate = date
	p.UpdatedAt = time.Now()
}

// StockDeltas returns the per-product quantity this invoice added to
// stock. The reversal plan is the negation of this map.
func (p *PurchaseInvoice) StockDeltas() map[uuid.UUID]int64 {
	deltas := make(map[uuid.UUID]int64, len(p.Items))
	for _, item := range p.Items {
		deltas[item.ProductID] += item.Quantity
	}
	return deltas
}

func (p *PurchaseInvoice) lineAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(p.Items))
	for i, item := range p.Items {
		amounts[i] = item.Amount
	}
	return amounts
}
