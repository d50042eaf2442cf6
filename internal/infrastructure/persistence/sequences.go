package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Sequence is a named monotonic counter. Invoice numbers and generated
// entity codes are drawn from sequences rather than from a max+1 scan
// so values survive deletes and are never reused.
type Sequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "sequences"
}

// Sequence names used across repositories
const (
	seqSaleInvoice     = "sale_invoice"
	seqPurchaseInvoice = "purchase_invoice"
	seqProductCode     = "product_code"
	seqCustomerCode    = "customer_code"
	seqSupplierCode    = "supplier_code"
)

// nextSequenceValue atomically increments and returns the named
// counter. The upsert takes a row lock, so concurrent callers inside
// separate transactions are serialized and each sees a distinct value.
func nextSequenceValue(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO sequences (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		 RETURNING value`,
		name,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return value, nil
}
