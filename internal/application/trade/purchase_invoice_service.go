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

// PurchaseInvoiceService is the purchase half of the invoice engine.
// Same transactional contract as SaleInvoiceService, with the stock
// direction flipped: purchases add stock, so their reversal must not
// drive any product negative and is validated before any write.
type PurchaseInvoiceService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPurchaseInvoiceService creates a new PurchaseInvoiceService
func NewPurchaseInvoiceService(scope TransactionScope, logger *zap.Logger) *PurchaseInvoiceService {
	return &PurchaseInvoiceService{
		scope:  scope,
		logger: logger,
	}
}

// Create commits a new purchase invoice
func (s *PurchaseInvoiceService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	var response PurchaseResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.PurchaseRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		supplier, err := repos.SupplierRepo().FindByID(ctx, req.SupplierID)
		if err != nil {
			return err
		}

		purchase, err := trade.NewPurchaseInvoice(invoiceNumber, supplier.ID, supplier.Name)
		if err != nil {
			return err
		}
		if err := s.buildItems(ctx, repos, purchase, req.Lines); err != nil {
			return err
		}
		if err := purchase.Finalize(req.Discount, req.Paid, req.PaymentMethod); err != nil {
			return err
		}
		purchase.SetNotes(req.Notes)
		if req.Date != nil {
			purchase.SetInvoiceDate(*req.Date)
		}

		if err := s.applyStock(ctx, repos, purchase, purchaseDirectionApply, "purchase"); err != nil {
			return err
		}
		if err := applySupplierDelta(ctx, repos, purchase.SupplierID, purchase.Remaining, purchase.Total); err != nil {
			return err
		}
		if purchase.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypePurchaseExpense, purchase.Paid,
				finance.CashRefPurchase, purchase.ID, "Purchase "+purchase.InvoiceNumber); err != nil {
				return err
			}
		}

		if err := repos.PurchaseRepo().Save(ctx, purchase); err != nil {
			return err
		}

		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase created",
		zap.String("invoice_number", response.InvoiceNumber),
		zap.String("total", response.Total.String()))

	return &response, nil
}

// Update replaces a purchase's lines and payment terms. Reversing the
// stored lines removes their stock, so the update fails up front when
// any of that stock has already been sold.
func (s *PurchaseInvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	var response PurchaseResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchase, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		oldSupplierID := purchase.SupplierID
		oldRemaining := purchase.Remaining
		oldTotal := purchase.Total
		oldPaid := purchase.Paid

		if err := s.validateReversal(ctx, repos, purchase.StockDeltas()); err != nil {
			return err
		}

		supplier, err := repos.SupplierRepo().FindByID(ctx, req.SupplierID)
		if err != nil {
			return err
		}

		// Reverse the stored effects.
		if err := s.applyStock(ctx, repos, purchase, purchaseDirectionReverse, "purchase_updated"); err != nil {
			return err
		}
		if err := applySupplierDelta(ctx, repos, oldSupplierID, oldRemaining.Neg(), oldTotal.Neg()); err != nil {
			return err
		}
		if oldPaid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeDeposit, oldPaid,
				finance.CashRefPurchase, purchase.ID, "Reversal of purchase "+purchase.InvoiceNumber); err != nil {
				return err
			}
		}

		// Rebuild and apply.
		purchase.SetSupplier(supplier.ID, supplier.Name)
		purchase.ResetItems()
		if err := s.buildItems(ctx, repos, purchase, req.Lines); err != nil {
			return err
		}
		if err := purchase.Finalize(req.Discount, req.Paid, req.PaymentMethod); err != nil {
			return err
		}
		purchase.SetNotes(req.Notes)
		if req.Date != nil {
			purchase.SetInvoiceDate(*req.Date)
		}

		if err := s.applyStock(ctx, repos, purchase, purchaseDirectionApply, "purchase"); err != nil {
			return err
		}
		if err := applySupplierDelta(ctx, repos, purchase.SupplierID, purchase.Remaining, purchase.Total); err != nil {
			return err
		}
		if purchase.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypePurchaseExpense, purchase.Paid,
				finance.CashRefPurchase, purchase.ID, "Purchase "+purchase.InvoiceNumber); err != nil {
				return err
			}
		}

		if err := repos.PurchaseRepo().ReplaceItems(ctx, purchase); err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Save(ctx, purchase); err != nil {
			return err
		}

		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase updated", zap.String("invoice_number", response.InvoiceNumber))

	return &response, nil
}

// Delete reverses a purchase and removes the invoice. Fails when the
// purchased stock has already been sold.
func (s *PurchaseInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	var invoiceNumber string

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchase, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		invoiceNumber = purchase.InvoiceNumber

		if err := s.validateReversal(ctx, repos, purchase.StockDeltas()); err != nil {
			return err
		}

		if err := s.applyStock(ctx, repos, purchase, purchaseDirectionReverse, "purchase_deleted"); err != nil {
			return err
		}
		if err := applySupplierDelta(ctx, repos, purchase.SupplierID, purchase.Remaining.Neg(), purchase.Total.Neg()); err != nil {
			return err
		}
		if purchase.Paid.IsPositive() {
			if err := appendCashEntry(ctx, repos, finance.CashTypeDeposit, purchase.Paid,
				finance.CashRefPurchase, purchase.ID, "Reversal of purchase "+purchase.InvoiceNumber); err != nil {
				return err
			}
		}

		return repos.PurchaseRepo().Delete(ctx, purchase.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase deleted", zap.String("invoice_number", invoiceNumber))

	return nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	var response PurchaseResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchase, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves purchases with pagination
func (s *PurchaseInvoiceService) List(ctx context.Context, filter ListFilter) ([]PurchaseResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "invoice_date"

	var responses []PurchaseResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchases, err := repos.PurchaseRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.PurchaseRepo().Count(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]PurchaseResponse, len(purchases))
		for i := range purchases {
			responses[i] = ToPurchaseResponse(&purchases[i])
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

type purchaseDirection int

const (
	purchaseDirectionApply   purchaseDirection = iota // stock arrives
	purchaseDirectionReverse                          // stock is pulled back
)

// buildItems resolves products and freezes a unit price onto each new
// line item. A line may carry the supplier's quoted cost; otherwise
// the current catalog purchase price is used.
func (s *PurchaseInvoiceService) buildItems(ctx context.Context, repos TransactionalRepositories, purchase *trade.PurchaseInvoice, lines []InvoiceLineRequest) error {
	for _, line := range lines {
		product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		unitPrice := product.PurchasePrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		if _, err := purchase.AddItem(product.ID, product.Name, line.Quantity, unitPrice); err != nil {
			return err
		}
	}
	return nil
}

// validateReversal checks that pulling the stored lines back out of
// stock leaves no product negative
func (s *PurchaseInvoiceService) validateReversal(ctx context.Context, repos TransactionalRepositories, deltas map[uuid.UUID]int64) error {
	for productID, qty := range deltas {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.Quantity < qty {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				"Cannot reverse purchase: stock of "+product.Name+" has already been sold")
		}
	}
	return nil
}

// applyStock moves stock for every line of the purchase and appends
// one movement record per line
func (s *PurchaseInvoiceService) applyStock(ctx context.Context, repos TransactionalRepositories, purchase *trade.PurchaseInvoice, direction purchaseDirection, reason string) error {
	for _, item := range purchase.Items {
		product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		quantityBefore := product.Quantity
		var change int64
		var movementType inventory.MovementType
		if direction == purchaseDirectionApply {
			if err := product.IncreaseStock(item.Quantity); err != nil {
				return err
			}
			change = item.Quantity
			movementType = inventory.MovementIn
		} else {
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			change = -item.Quantity
			movementType = inventory.MovementOut
		}

		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(product.ID, product.Name, movementType, quantityBefore, change, reason)
		if err != nil {
			return err
		}
		movement.WithReference(inventory.RefPurchase, purchase.ID)
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

// applySupplierDelta moves the supplier's payable balance and lifetime
// total
func applySupplierDelta(ctx context.Context, repos TransactionalRepositories, supplierID uuid.UUID, balanceDelta, purchasesDelta decimal.Decimal) error {
	supplier, err := repos.SupplierRepo().FindByID(ctx, supplierID)
	if err != nil {
		return err
	}
	supplier.ApplyBalanceDelta(balanceDelta, purchasesDelta)
	return repos.SupplierRepo().Save(ctx, supplier)
}
