package trade

import (
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// PaymentStatus represents how much of an invoice has been settled
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Totals holds the derived money fields of an invoice
type Totals struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    PaymentStatus
}

// ComputeTotals derives an invoice's money fields from its line
// amounts, discount, and amount paid. It is a pure function: both
// invoice types and the HTTP preview endpoint use it, so totals can
// never drift between creation and update paths.
//
// Overpayment is allowed: remaining goes negative and the status is
// paid. A discount above the subtotal is rejected.
func ComputeTotals(lineAmounts []decimal.Decimal, discount, paid decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, shared.ErrInvalidDiscount
	}
	if paid.IsNegative() {
		return Totals{}, shared.NewDomainError("INVALID_PAID", "Paid amount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, amount := range lineAmounts {
		subtotal = subtotal.Add(amount)
	}

	if discount.GreaterThan(subtotal) {
		return Totals{}, shared.ErrInvalidDiscount
	}

	total := subtotal.Sub(discount)
	remaining := total.Sub(paid)

	return Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     total,
		Paid:      paid,
		Remaining: remaining,
		Status:    derivePaymentStatus(total, paid),
	}, nil
}

func derivePaymentStatus(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}
