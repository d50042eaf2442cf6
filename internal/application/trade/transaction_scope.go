package trade

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to every repository
// the invoice engine touches. Invoice create, update, and delete each
// run inside exactly one Execute call, so the invoice rows, product
// stock, party balances, stock movements, and cash ledger commit or
// roll back as a unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the engine's
// repositories within one transaction. All repositories returned share
// the same underlying database transaction.
type TransactionalRepositories interface {
	SaleRepo() trade.SaleInvoiceRepository
	PurchaseRepo() trade.PurchaseInvoiceRepository
	ProductRepo() catalog.ProductRepository
	CustomerRepo() partner.CustomerRepository
	SupplierRepo() partner.SupplierRepository
	MovementRepo() inventory.StockMovementRepository
	CashRepo() finance.CashTransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests that supply in-memory repositories.
type NoOpTransactionScope struct {
	saleRepo     trade.SaleInvoiceRepository
	purchaseRepo trade.PurchaseInvoiceRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	supplierRepo partner.SupplierRepository
	movementRepo inventory.StockMovementRepository
	cashRepo     finance.CashTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	saleRepo trade.SaleInvoiceRepository,
	purchaseRepo trade.PurchaseInvoiceRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	supplierRepo partner.SupplierRepository,
	movementRepo inventory.StockMovementRepository,
	cashRepo finance.CashTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		cashRepo:     cashRepo,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) SaleRepo() trade.SaleInvoiceRepository         { return s.saleRepo }
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseInvoiceRepository { return s.purchaseRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository        { return s.productRepo }
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository      { return s.customerRepo }
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository      { return s.supplierRepo }
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}
func (s *NoOpTransactionScope) CashRepo() finance.CashTransactionRepository { return s.cashRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
