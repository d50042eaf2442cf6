package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	appfinance "github.com/pos/backend/internal/application/finance"
	appinventory "github.com/pos/backend/internal/application/inventory"
	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
)

// writeTxOptions is applied to every Execute transaction. Invoice
// commits read stock and the ledger tail and then write them back, so
// anything weaker than serializable allows two concurrent sales to
// both pass the stock check and drive a product negative.
var writeTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// pgSerializationFailure is the SQLSTATE PostgreSQL reports when a
// serializable transaction must be retried.
const pgSerializationFailure = "40001"

// translateTxError maps serialization failures onto a domain error so
// the API surfaces a retryable conflict instead of an opaque 500.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure {
		return shared.NewDomainError("CONCURRENT_MODIFICATION",
			"The operation conflicted with a concurrent change, please retry")
	}
	return err
}

// GormTransactionScope implements the application transaction scopes
// using GORM transactions. One instance serves the invoice engine,
// stock adjustments, and the cash ledger; each Execute call opens its
// own serializable database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return translateTxError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}, writeTxOptions))
}

// InventoryScope adapts the scope to stock adjustment transactions
func (s *GormTransactionScope) InventoryScope() appinventory.TransactionScope {
	return &gormInventoryScope{db: s.db}
}

// FinanceScope adapts the scope to cash ledger transactions
func (s *GormTransactionScope) FinanceScope() appfinance.TransactionScope {
	return &gormFinanceScope{db: s.db}
}

// gormTransactionalRepositories provides every repository the invoice
// engine touches, all bound to the same transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormTransactionalRepositories) SaleRepo() trade.SaleInvoiceRepository {
	return NewGormSaleInvoiceRepository(r.tx)
}

// PurchaseRepo returns the purchase repository scoped to the current transaction
func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// CashRepo returns the cash ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) CashRepo() finance.CashTransactionRepository {
	return NewGormCashTransactionRepository(r.tx)
}

// gormInventoryScope runs stock adjustments in their own transaction
type gormInventoryScope struct {
	db *gorm.DB
}

func (s *gormInventoryScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return translateTxError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}, writeTxOptions))
}

// gormFinanceScope serializes cash ledger appends. The balance read
// and the append happen inside one transaction.
type gormFinanceScope struct {
	db *gorm.DB
}

func (s *gormFinanceScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return translateTxError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}, writeTxOptions))
}

// Interface assertions
var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)
var _ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appinventory.TransactionScope = (*gormInventoryScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appfinance.TransactionScope = (*gormFinanceScope)(nil)
var _ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
