package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/shared"
)

// GormCashTransactionRepository implements finance.CashTransactionRepository
// using GORM. The ledger is append-only.
type GormCashTransactionRepository struct {
	db *gorm.DB
}

// NewGormCashTransactionRepository creates a new GormCashTransactionRepository
func NewGormCashTransactionRepository(db *gorm.DB) *GormCashTransactionRepository {
	return &GormCashTransactionRepository{db: db}
}

// FindLatest returns the most recent ledger entry, or nil when the
// ledger is empty
func (r *GormCashTransactionRepository) FindLatest(ctx context.Context) (*finance.CashTransaction, error) {
	var tx finance.CashTransaction
	err := r.db.WithContext(ctx).
		Order("transaction_date DESC, created_at DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll returns ledger entries, newest first
func (r *GormCashTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CashTransaction, error) {
	var txs []finance.CashTransaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.CashTransaction{}), filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Append persists a new ledger entry
func (r *GormCashTransactionRepository) Append(ctx context.Context, tx *finance.CashTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// Count counts ledger entries matching the filter
func (r *GormCashTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterConditions(r.db.WithContext(ctx).Model(&finance.CashTransaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCashTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterConditions(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CashSortFields, "transaction_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormCashTransactionRepository) applyFilterConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("notes ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "date_from":
			query = query.Where("transaction_date >= ?", value)
		case "date_to":
			query = query.Where("transaction_date < ?", value)
		}
	}

	return query
}

// Ensure GormCashTransactionRepository implements CashTransactionRepository
var _ finance.CashTransactionRepository = (*GormCashTransactionRepository)(nil)
