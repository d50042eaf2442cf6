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

// GormSaleInvoiceRepository implements trade.SaleInvoiceRepository using GORM
type GormSaleInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSaleInvoiceRepository creates a new GormSaleInvoiceRepository
func NewGormSaleInvoiceRepository(db *gorm.DB) *GormSaleInvoiceRepository {
	return &GormSaleInvoiceRepository{db: db}
}

// FindByID finds a sale with its items
func (r *GormSaleInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleInvoice, error) {
	var sale trade.SaleInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its invoice number
func (r *GormSaleInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*trade.SaleInvoice, error) {
	var sale trade.SaleInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales matching the filter, items included
func (r *GormSaleInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SaleInvoice, error) {
	var sales []trade.SaleInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.SaleInvoice{}), filter)
	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByDateRange finds sales within [from, to)
func (r *GormSaleInvoiceRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]trade.SaleInvoice, error) {
	var sales []trade.SaleInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Order("invoice_date ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale with its items
func (r *GormSaleInvoiceRepository) Save(ctx context.Context, sale *trade.SaleInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			if err := tx.Save(&sale.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceItems swaps the sale's line items for the given set
func (r *GormSaleInvoiceRepository) ReplaceItems(ctx context.Context, sale *trade.SaleInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&trade.SaleItem{}).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			if err := tx.Create(&sale.Items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items").Save(sale).Error
	})
}

// Delete removes a sale and its items
func (r *GormSaleInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&trade.SaleItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.SaleInvoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts sales matching the filter
func (r *GormSaleInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.SaleInvoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProduct counts sale lines that reference a product
func (r *GormSaleInvoiceRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts sales that reference a customer
func (r *GormSaleInvoiceRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.SaleInvoice{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceNumber returns the next number in the INV sequence
func (r *GormSaleInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	value, err := nextSequenceValue(ctx, r.db, seqSaleInvoice)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV%06d", value), nil
}

func (r *GormSaleInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormSaleInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "date_from":
			query = query.Where("invoice_date >= ?", value)
		case "date_to":
			query = query.Where("invoice_date < ?", value)
		}
	}

	return query
}

// Ensure GormSaleInvoiceRepository implements SaleInvoiceRepository
var _ trade.SaleInvoiceRepository = (*GormSaleInvoiceRepository)(nil)
