package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/trade"
)

// InvoiceLineRequest is one requested invoice line. When the unit
// price is omitted the current catalog price is frozen onto the line
// at commit time; a negotiated price may be passed explicitly.
type InvoiceLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
}

// CreateSaleRequest is the payload for creating a sale invoice
type CreateSaleRequest struct {
	CustomerID    *uuid.UUID           `json:"customer_id"`
	Date          *time.Time           `json:"date" binding:"omitempty"`
	Lines         []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount" binding:"gte=0"`
	Paid          decimal.Decimal      `json:"paid" binding:"gte=0"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// UpdateSaleRequest replaces a sale's lines and payment terms
type UpdateSaleRequest struct {
	CustomerID    *uuid.UUID           `json:"customer_id"`
	Date          *time.Time           `json:"date" binding:"omitempty"`
	Lines         []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount" binding:"gte=0"`
	Paid          decimal.Decimal      `json:"paid" binding:"gte=0"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// CreatePurchaseRequest is the payload for creating a purchase invoice
type CreatePurchaseRequest struct {
	SupplierID    uuid.UUID            `json:"supplier_id" binding:"required"`
	Date          *time.Time           `json:"date" binding:"omitempty"`
	Lines         []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount" binding:"gte=0"`
	Paid          decimal.Decimal      `json:"paid" binding:"gte=0"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// UpdatePurchaseRequest replaces a purchase's lines and payment terms
type UpdatePurchaseRequest struct {
	SupplierID    uuid.UUID            `json:"supplier_id" binding:"required"`
	Date          *time.Time           `json:"date" binding:"omitempty"`
	Lines         []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount" binding:"gte=0"`
	Paid          decimal.Decimal      `json:"paid" binding:"gte=0"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// PreviewTotalsRequest asks for the derived totals of a hypothetical
// invoice without committing anything
type PreviewTotalsRequest struct {
	Lines    []PreviewLine   `json:"lines" binding:"required,min=1,dive"`
	Discount decimal.Decimal `json:"discount" binding:"gte=0"`
	Paid     decimal.Decimal `json:"paid" binding:"gte=0"`
}

// PreviewLine carries an explicit unit price for previewing
type PreviewLine struct {
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
}

// TotalsResponse is the result of a totals computation
type TotalsResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// InvoiceItemResponse is one committed invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleResponse is the API view of a sale invoice
type SaleResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    *uuid.UUID            `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Remaining     decimal.Decimal       `json:"remaining"`
	Status        string                `json:"status"`
	PaymentMethod string                `json:"payment_method"`
	Notes         string                `json:"notes"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	CreatedAt     time.Time             `json:"created_at"`
}

// PurchaseResponse is the API view of a purchase invoice
type PurchaseResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	SupplierID    uuid.UUID             `json:"supplier_id"`
	SupplierName  string                `json:"supplier_name"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Remaining     decimal.Decimal       `json:"remaining"`
	Status        string                `json:"status"`
	PaymentMethod string                `json:"payment_method"`
	Notes         string                `json:"notes"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ListFilter carries pagination for invoice listings
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// ToSaleResponse maps a sale aggregate to its API view
func ToSaleResponse(sale *trade.SaleInvoice) SaleResponse {
	items := make([]InvoiceItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return SaleResponse{
		ID:            sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		Items:         items,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		Paid:          sale.Paid,
		Remaining:     sale.Remaining,
		Status:        sale.Status.String(),
		PaymentMethod: sale.PaymentMethod,
		Notes:         sale.Notes,
		InvoiceDate:   sale.InvoiceDate,
		CreatedAt:     sale.CreatedAt,
	}
}

// ToPurchaseResponse maps a purchase aggregate to its API view
func ToPurchaseResponse(purchase *trade.PurchaseInvoice) PurchaseResponse {
	items := make([]InvoiceItemResponse, len(purchase.Items))
	for i, item := range purchase.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return PurchaseResponse{
		ID:            purchase.ID,
		InvoiceNumber: purchase.InvoiceNumber,
		SupplierID:    purchase.SupplierID,
		SupplierName:  purchase.SupplierName,
		Items:         items,
		Subtotal:      purchase.Subtotal,
		Discount:      purchase.Discount,
		Total:         purchase.Total,
		Paid:          purchase.Paid,
		Remaining:     purchase.Remaining,
		Status:        purchase.Status.String(),
		PaymentMethod: purchase.PaymentMethod,
		Notes:         purchase.Notes,
		InvoiceDate:   purchase.InvoiceDate,
		CreatedAt:     purchase.CreatedAt,
	}
}

// ToTotalsResponse maps derived totals to the API view
func ToTotalsResponse(totals trade.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Total:     totals.Total,
		Paid:      totals.Paid,
		Remaining: totals.Remaining,
		Status:    totals.Status.String(),
	}
}
