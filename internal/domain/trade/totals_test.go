package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/shared"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name          string
		lines         []decimal.Decimal
		discount      decimal.Decimal
		paid          decimal.Decimal
		wantSubtotal  decimal.Decimal
		wantTotal     decimal.Decimal
		wantRemaining decimal.Decimal
		wantStatus    PaymentStatus
		wantErr       string
	}{
		{
			name:          "fully paid",
			lines:         []decimal.Decimal{d(60), d(40)},
			discount:      d(0),
			paid:          d(100),
			wantSubtotal:  d(100),
			wantTotal:     d(100),
			wantRemaining: d(0),
			wantStatus:    PaymentStatusPaid,
		},
		{
			name:          "partial payment",
			lines:         []decimal.Decimal{d(100)},
			discount:      d(10),
			paid:          d(50),
			wantSubtotal:  d(100),
			wantTotal:     d(90),
			wantRemaining: d(40),
			wantStatus:    PaymentStatusPartial,
		},
		{
			name:          "unpaid credit sale",
			lines:         []decimal.Decimal{d(75.50)},
			discount:      d(0),
			paid:          d(0),
			wantSubtotal:  d(75.50),
			wantTotal:     d(75.50),
			wantRemaining: d(75.50),
			wantStatus:    PaymentStatusUnpaid,
		},
		{
			name:          "overpayment leaves negative remaining",
			lines:         []decimal.Decimal{d(80)},
			discount:      d(0),
			paid:          d(100),
			wantSubtotal:  d(80),
			wantTotal:     d(80),
			wantRemaining: d(-20),
			wantStatus:    PaymentStatusPaid,
		},
		{
			name:          "discount equal to subtotal",
			lines:         []decimal.Decimal{d(50)},
			discount:      d(50),
			paid:          d(0),
			wantSubtotal:  d(50),
			wantTotal:     d(0),
			wantRemaining: d(0),
			wantStatus:    PaymentStatusPaid,
		},
		{
			name:     "discount above subtotal rejected",
			lines:    []decimal.Decimal{d(50)},
			discount: d(51),
			paid:     d(0),
			wantErr:  "INVALID_DISCOUNT",
		},
		{
			name:     "negative discount rejected",
			lines:    []decimal.Decimal{d(50)},
			discount: d(-1),
			paid:     d(0),
			wantErr:  "INVALID_DISCOUNT",
		},
		{
			name:     "negative paid rejected",
			lines:    []decimal.Decimal{d(50)},
			discount: d(0),
			paid:     d(-1),
			wantErr:  "INVALID_PAID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeTotals(tt.lines, tt.discount, tt.paid)
			if tt.wantErr != "" {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantErr, domainErr.Code)
				return
			}

			require.NoError(t, err)
			assert.True(t, totals.Subtotal.Equal(tt.wantSubtotal), "subtotal %s", totals.Subtotal)
			assert.True(t, totals.Total.Equal(tt.wantTotal), "total %s", totals.Total)
			assert.True(t, totals.Remaining.Equal(tt.wantRemaining), "remaining %s", totals.Remaining)
			assert.Equal(t, tt.wantStatus, totals.Status)
		})
	}
}

func TestComputeTotalsIsDeterministic(t *testing.T) {
	lines := []decimal.Decimal{d(19.99), d(5.25), d(3.10)}
	first, err := ComputeTotals(lines, d(2), d(10))
	require.NoError(t, err)
	second, err := ComputeTotals(lines, d(2), d(10))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
