package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
)

// GormPurchaseInvoiceRepository implements trade.PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByID finds a purchase with its items
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	var purchase trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByNumber finds a purchase by its invoice number
func (r *GormPurchaseInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*trade.PurchaseInvoice, error) {
	var purchase trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds purchases matching the filter, items included
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseInvoice, error) {
	var purchases []trade.PurchaseInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}), filter)
	if err := query.Preload("Items").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByDateRange finds purchases within [from, to)
func (r *GormPurchaseInvoiceRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]trade.PurchaseInvoice, error) {
	var purchases []trade.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Order("invoice_date ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase with its items
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, purchase *trade.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(purchase).Error; err != nil {
			return err
		}
		for i := range purchase.Items {
			if err := tx.Save(&purchase.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceItems swaps the purchase's line items for the given set
func (r *GormPurchaseInvoiceRepository) ReplaceItems(ctx context.Context, purchase *trade.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}
		for i := range purchase.Items {
			if err := tx.Create(&purchase.Items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items").Save(purchase).Error
	})
}

// Delete removes a purchase and its items
func (r *GormPurchaseInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.PurchaseInvoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts purchases matching the filter
func (r *GormPurchaseInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.PurchaseInvoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProduct counts purchase lines that reference a product
func (r *GormPurchaseInvoiceRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts purchases that reference a supplier
func (r *GormPurchaseInvoiceRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseInvoice{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceNumber returns the next number in the PUR sequence
func (r *GormPurchaseInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	value, err := nextSequenceValue(ctx, r.db, seqPurchaseInvoice)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PUR%06d", value), nil
}

func (r *GormPurchaseInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormPurchaseInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "date_from":
			query = query.Where("invoice_date >= ?", value)
		case "date_to":
			query = query.Where("invoice_date < ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository
var _ trade.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
