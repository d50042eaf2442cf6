package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
)

// SaleInvoiceService is the sale half of the invoice engine. Every
// mutating operation runs inside one TransactionScope.Execute call and
// propagates its effects to product stock, the customer balance, the
// movement audit trail, and the cash ledger in that same transaction.
type SaleInvoiceService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSaleInvoiceService creates a new SaleInvoiceService
func NewSaleInvoiceService(scope TransactionScope, logger *zap.Logger) *SaleInvoiceService {
	return &SaleInvoiceService{
		scope:  scope,
		logger: logger,
	}
}

// Create commits a new sale invoice.
// Validation happens before any write: product existence, stock
// availability, and discount bounds. On success the invoice, the stock
// decrements, one movement per line, the customer balance delta, and
// the optional cash entry are all persisted atomically.
func (s *SaleInvoiceService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	var response SaleResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.SaleRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		customerName := ""
		if req.CustomerID != nil {
			customer, err := repos.CustomerRepo().FindByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			customerName = customer.Name
		}

		sale, err := trade.NewSaleInvoice(invoiceNumber, req.CustomerID, customerName)
		if err != nil {
			return err
		}
		if err := s.buildItems(ctx, repos, sale, req.Lines); err != nil {
			return err
		}
		if err := sale.Finalize(req.Discount, req.Paid, req.PaymentMethod); err != nil {
			return err
		}
		sale.SetNotes(req.Notes)
		if req.Date != nil {
			sale.SetInvoiceDate(*req.Date)
		}

		if err := s.applyStock(ctx, repos, sale, saleDirectionApply, "sale"); err != nil {
			return err
		}
		if err := applyCustomerDelta(ctx, repos, req.CustomerID, sale.Remaining, sale.Total); err != nil {
			return err
		}
		if sale.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeSaleIncome, sale.Paid,
				finance.CashRefSale, sale.ID, "Sale "+sale.InvoiceNumber); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("invoice_number", response.InvoiceNumber),
		zap.String("total", response.Total.String()))

	return &response, nil
}

// Update replaces a sale's lines and payment terms. The stored effects
// are reversed and the new ones applied inside one transaction, and
// stock for the new lines is validated against post-reversal
// quantities. The invoice number never changes.
func (s *SaleInvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	var response SaleResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		oldCustomerID := sale.CustomerID
		oldRemaining := sale.Remaining
		oldTotal := sale.Total
		oldPaid := sale.Paid
		oldDeltas := sale.StockDeltas()

		// Validate the replacement against post-reversal stock before
		// touching anything.
		if err := s.validateReplacement(ctx, repos, oldDeltas, req.Lines); err != nil {
			return err
		}

		customerName := ""
		if req.CustomerID != nil {
			customer, err := repos.CustomerRepo().FindByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			customerName = customer.Name
		}

		// Reverse the stored effects.
		if err := s.applyStock(ctx, repos, sale, saleDirectionReverse, "sale_updated"); err != nil {
			return err
		}
		if err := applyCustomerDelta(ctx, repos, oldCustomerID, oldRemaining.Neg(), oldTotal.Neg()); err != nil {
			return err
		}
		if oldPaid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeWithdrawal, oldPaid,
				finance.CashRefSale, sale.ID, "Reversal of sale "+sale.InvoiceNumber); err != nil {
				return err
			}
		}

		// Rebuild and apply.
		sale.SetCustomer(req.CustomerID, customerName)
		sale.ResetItems()
		if err := s.buildItems(ctx, repos, sale, req.Lines); err != nil {
			return err
		}
		if err := sale.Finalize(req.Discount, req.Paid, req.PaymentMethod); err != nil {
			return err
		}
		sale.SetNotes(req.Notes)
		if req.Date != nil {
			sale.SetInvoiceDate(*req.Date)
		}

		if err := s.applyStock(ctx, repos, sale, saleDirectionApply, "sale"); err != nil {
			return err
		}
		if err := applyCustomerDelta(ctx, repos, req.CustomerID, sale.Remaining, sale.Total); err != nil {
			return err
		}
		if sale.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeSaleIncome, sale.Paid,
				finance.CashRefSale, sale.ID, "Sale "+sale.InvoiceNumber); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().ReplaceItems(ctx, sale); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale updated", zap.String("invoice_number", response.InvoiceNumber))

	return &response, nil
}

// Delete reverses a sale's effects and removes the invoice. The
// invoice number is retired with it; the sequence never reissues it.
func (s *SaleInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	var invoiceNumber string

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		invoiceNumber = sale.InvoiceNumber

		if err := s.applyStock(ctx, repos, sale, saleDirectionReverse, "sale_deleted"); err != nil {
			return err
		}
		if err := applyCustomerDelta(ctx, repos, sale.CustomerID, sale.Remaining.Neg(), sale.Total.Neg()); err != nil {
			return err
		}
		if sale.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeWithdrawal, sale.Paid,
				finance.CashRefSale, sale.ID, "Reversal of sale "+sale.InvoiceNumber); err != nil {
				return err
			}
		}

		return repos.SaleRepo().Delete(ctx, sale.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale deleted", zap.String("invoice_number", invoiceNumber))

	return nil
}

// GetByID retrieves a sale by ID
func (s *SaleInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves sales with pagination
func (s *SaleInvoiceService) List(ctx context.Context, filter ListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "invoice_date"

	var responses []SaleResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sales, err := repos.SaleRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.SaleRepo().Count(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]SaleResponse, len(sales))
		for i := range sales {
			responses[i] = ToSaleResponse(&sales[i])
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// PreviewTotals derives the totals of a hypothetical invoice without
// committing anything
func (s *SaleInvoiceService) PreviewTotals(req PreviewTotalsRequest) (*TotalsResponse, error) {
	amounts := make([]decimal.Decimal, len(req.Lines))
	for i, line := range req.Lines {
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		amounts[i] = line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
	}
	totals, err := trade.ComputeTotals(amounts, req.Discount, req.Paid)
	if err != nil {
		return nil, err
	}
	response := ToTotalsResponse(totals)
	return &response, nil
}

type saleDirection int

const (
	saleDirectionApply   saleDirection = iota // stock leaves the shelf
	saleDirectionReverse                      // stock returns to the shelf
)

// buildItems resolves products and freezes a unit price onto each new
// line item. A line may carry a negotiated price; otherwise the
// current catalog sale price is used.
func (s *SaleInvoiceService) buildItems(ctx context.Context, repos TransactionalRepositories, sale *trade.SaleInvoice, lines []InvoiceLineRequest) error {
	for _, line := range lines {
		product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		unitPrice := product.SalePrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		if _, err := sale.AddItem(product.ID, product.Name, line.Quantity, unitPrice); err != nil {
			return err
		}
	}
	return nil
}

// validateReplacement checks the requested lines against post-reversal
// quantities, so swapping a line's quantity within available stock
// never trips a spurious shortage
func (s *SaleInvoiceService) validateReplacement(ctx context.Context, repos TransactionalRepositories, oldDeltas map[uuid.UUID]int64, lines []InvoiceLineRequest) error {
	requested := make(map[uuid.UUID]int64, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return shared.ErrInvalidQuantity
		}
		requested[line.ProductID] += line.Quantity
	}

	for productID, qty := range requested {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		available := product.Quantity + oldDeltas[productID]
		if qty > available {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				"Insufficient stock for product "+product.Name)
		}
	}
	return nil
}

// applyStock moves stock for every line of the sale and appends one
// movement record per line
func (s *SaleInvoiceService) applyStock(ctx context.Context, repos TransactionalRepositories, sale *trade.SaleInvoice, direction saleDirection, reason string) error {
	for _, item := range sale.Items {
		product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		quantityBefore := product.Quantity
		var change int64
		var movementType inventory.MovementType
		if direction == saleDirectionApply {
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			change = -item.Quantity
			movementType = inventory.MovementOut
		} else {
			if err := product.IncreaseStock(item.Quantity); err != nil {
				return err
			}
			change = item.Quantity
			movementType = inventory.MovementIn
		}

		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(product.ID, product.Name, movementType, quantityBefore, change, reason)
		if err != nil {
			return err
		}
		movement.WithReference(inventory.RefSale, sale.ID)
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

// applyCustomerDelta moves the customer's balance and lifetime total.
// A nil customer means a walk-in sale with no receivable to track.
func applyCustomerDelta(ctx context.Context, repos TransactionalRepositories, customerID *uuid.UUID, balanceDelta, purchasesDelta decimal.Decimal) error {
	if customerID == nil {
		return nil
	}
	customer, err := repos.CustomerRepo().FindByID(ctx, *customerID)
	if err != nil {
		return err
	}
	customer.ApplyBalanceDelta(balanceDelta, purchasesDelta)
	return repos.CustomerRepo().Save(ctx, customer)
}

// appendCashEntry appends a ledger entry continuing from the current
// running balance
func appendCashEntry(ctx context.Context, repos TransactionalRepositories, txType finance.CashTransactionType, amount decimal.Decimal, refType finance.CashReferenceType, refID uuid.UUID, notes string) error {
	latest, err := repos.CashRepo().FindLatest(ctx)
	if err != nil {
		return err
	}
	balance := decimal.Zero
	if latest != nil {
		balance = latest.BalanceAfter
	}

	entry, err := finance.NewCashTransaction(txType, amount, balance)
	if err != nil {
		return err
	}
	entry.WithReference(refType, refID).WithNotes(notes)
	return repos.CashRepo().Append(ctx, entry)
}
