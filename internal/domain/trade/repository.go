package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// SaleInvoiceRepository defines the interface for sale persistence
type SaleInvoiceRepository interface {
	// FindByID finds a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SaleInvoice, error)

	// FindByNumber finds a sale by its invoice number
	FindByNumber(ctx context.Context, invoiceNumber string) (*SaleInvoice, error)

	// FindAll finds sales matching the filter, items included
	FindAll(ctx context.Context, filter shared.Filter) ([]SaleInvoice, error)

	// FindByDateRange finds sales within [from, to)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]SaleInvoice, error)

	// Save creates or updates a sale with its items
	Save(ctx context.Context, sale *SaleInvoice) error

	// ReplaceItems swaps the sale's line items for the given set
	ReplaceItems(ctx context.Context, sale *SaleInvoice) error

	// Delete removes a sale and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByProduct counts sale lines that reference a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// CountByCustomer counts sales that reference a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// NextInvoiceNumber returns the next number in the INV sequence.
	// The sequence is monotonic and survives deletes; numbers are
	// never reused.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// PurchaseInvoiceRepository defines the interface for purchase persistence
type PurchaseInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*PurchaseInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseInvoice, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]PurchaseInvoice, error)
	Save(ctx context.Context, purchase *PurchaseInvoice) error
	ReplaceItems(ctx context.Context, purchase *PurchaseInvoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// NextInvoiceNumber returns the next number in the PUR sequence
	NextInvoiceNumber(ctx context.Context) (string, error)
}
