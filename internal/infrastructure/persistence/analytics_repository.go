package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/report"
)

// GormAnalyticsRepository implements report.AnalyticsRepository with
// SQL aggregations. Nothing here mutates state.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// DashboardStats aggregates the figures shown on the store dashboard
func (r *GormAnalyticsRepository) DashboardStats(ctx context.Context) (*report.DashboardStats, error) {
	stats := &report.DashboardStats{}
	db := r.db.WithContext(ctx)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	type todayResult struct {
		Sales    decimal.Decimal
		Invoices int64
	}
	var today todayResult
	if err := db.Table("sales").
		Select("COALESCE(SUM(total), 0) as sales, COUNT(*) as invoices").
		Where("invoice_date >= ? AND invoice_date < ?", dayStart, dayEnd).
		Scan(&today).Error; err != nil {
		return nil, err
	}
	stats.TodaySales = today.Sales
	stats.TodayInvoices = today.Invoices

	var todayPurchases decimal.Decimal
	if err := db.Table("purchases").
		Select("COALESCE(SUM(total), 0)").
		Where("invoice_date >= ? AND invoice_date < ?", dayStart, dayEnd).
		Scan(&todayPurchases).Error; err != nil {
		return nil, err
	}
	stats.TodayPurchases = todayPurchases

	var cashBalance decimal.Decimal
	if err := db.Raw(
		`SELECT COALESCE((SELECT balance_after FROM cash_transactions
		  ORDER BY transaction_date DESC, created_at DESC LIMIT 1), 0)`,
	).Scan(&cashBalance).Error; err != nil {
		return nil, err
	}
	stats.CashBalance = cashBalance

	type stockResult struct {
		Products   int64
		LowStock   int64
		OutOfStock int64
	}
	var stock stockResult
	if err := db.Table("products").
		Select(`COUNT(*) as products,
			COUNT(*) FILTER (WHERE min_quantity > 0 AND quantity <= min_quantity) as low_stock,
			COUNT(*) FILTER (WHERE quantity <= 0) as out_of_stock`).
		Scan(&stock).Error; err != nil {
		return nil, err
	}
	stats.ProductCount = stock.Products
	stats.LowStockCount = stock.LowStock
	stats.OutOfStockCount = stock.OutOfStock

	type partnerResult struct {
		Count int64
		Debt  decimal.Decimal
	}
	var customers partnerResult
	if err := db.Table("customers").
		Select("COUNT(*) as count, COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0) as debt").
		Scan(&customers).Error; err != nil {
		return nil, err
	}
	stats.CustomerCount = customers.Count
	stats.TotalReceivable = customers.Debt

	var suppliers partnerResult
	if err := db.Table("suppliers").
		Select("COUNT(*) as count, COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0) as debt").
		Scan(&suppliers).Error; err != nil {
		return nil, err
	}
	stats.SupplierCount = suppliers.Count
	stats.TotalPayable = suppliers.Debt

	return stats, nil
}

// DailySales returns one point per day that had sales, ascending
func (r *GormAnalyticsRepository) DailySales(ctx context.Context, from, to time.Time) ([]report.DailySalesPoint, error) {
	type dailyResult struct {
		Day          time.Time
		InvoiceCount int64
		TotalSales   decimal.Decimal
		TotalPaid    decimal.Decimal
	}

	var rows []dailyResult
	if err := r.db.WithContext(ctx).Table("sales").
		Select(`DATE_TRUNC('day', invoice_date) as day,
			COUNT(*) as invoice_count,
			COALESCE(SUM(total), 0) as total_sales,
			COALESCE(SUM(paid), 0) as total_paid`).
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Group("DATE_TRUNC('day', invoice_date)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]report.DailySalesPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, report.DailySalesPoint{
			Date:         row.Day,
			InvoiceCount: row.InvoiceCount,
			TotalSales:   row.TotalSales,
			TotalPaid:    row.TotalPaid,
		})
	}
	return points, nil
}

// TopProducts returns the best-selling products by amount, descending.
// Profit per line is the sale amount minus the product's current
// purchase price times quantity.
func (r *GormAnalyticsRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]report.ProductRanking, error) {
	type rankResult struct {
		ProductID    uuid.UUID
		ProductName  string
		QuantitySold int64
		TotalAmount  decimal.Decimal
		TotalProfit  decimal.Decimal
	}

	var rows []rankResult
	if err := r.db.WithContext(ctx).Table("sale_items si").
		Select(`si.product_id,
			MAX(si.product_name) as product_name,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.amount), 0) as total_amount,
			COALESCE(SUM(si.amount - p.purchase_price * si.quantity), 0) as total_profit`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("s.invoice_date >= ? AND s.invoice_date < ?", from, to).
		Group("si.product_id").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	rankings := make([]report.ProductRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, report.ProductRanking{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			TotalAmount:  row.TotalAmount,
			TotalProfit:  row.TotalProfit,
		})
	}
	return rankings, nil
}

// TopCustomers returns the highest-revenue customers, descending.
// Walk-in sales carry no customer and are excluded.
func (r *GormAnalyticsRepository) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]report.CustomerRanking, error) {
	type rankResult struct {
		CustomerID   uuid.UUID
		CustomerName string
		InvoiceCount int64
		TotalAmount  decimal.Decimal
	}

	var rows []rankResult
	if err := r.db.WithContext(ctx).Table("sales").
		Select(`customer_id,
			MAX(customer_name) as customer_name,
			COUNT(*) as invoice_count,
			COALESCE(SUM(total), 0) as total_amount`).
		Where("customer_id IS NOT NULL").
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Group("customer_id").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	rankings := make([]report.CustomerRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, report.CustomerRanking{
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			InvoiceCount: row.InvoiceCount,
			TotalAmount:  row.TotalAmount,
		})
	}
	return rankings, nil
}

// ProfitTotals sums period revenue and cost of sold units
func (r *GormAnalyticsRepository) ProfitTotals(ctx context.Context, from, to time.Time) (*report.ProfitTotals, error) {
	type profitResult struct {
		Revenue decimal.Decimal
		Cost    decimal.Decimal
	}

	var result profitResult
	if err := r.db.WithContext(ctx).Table("sale_items si").
		Select(`COALESCE(SUM(si.amount), 0) as revenue,
			COALESCE(SUM(p.purchase_price * si.quantity), 0) as cost`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("s.invoice_date >= ? AND s.invoice_date < ?", from, to).
		Scan(&result).Error; err != nil {
		return nil, err
	}

	return &report.ProfitTotals{
		Revenue: result.Revenue,
		Cost:    result.Cost,
	}, nil
}

// InventoryValuation values on-hand stock at purchase price
func (r *GormAnalyticsRepository) InventoryValuation(ctx context.Context) (*report.InventoryValuation, error) {
	type valuationResult struct {
		TotalProducts int64
		TotalUnits    int64
		TotalValue    decimal.Decimal
		LowStock      int64
		OutOfStock    int64
	}

	var result valuationResult
	if err := r.db.WithContext(ctx).Table("products").
		Select(`COUNT(*) as total_products,
			COALESCE(SUM(quantity), 0) as total_units,
			COALESCE(SUM(purchase_price * quantity), 0) as total_value,
			COUNT(*) FILTER (WHERE min_quantity > 0 AND quantity <= min_quantity) as low_stock,
			COUNT(*) FILTER (WHERE quantity <= 0) as out_of_stock`).
		Scan(&result).Error; err != nil {
		return nil, err
	}

	return &report.InventoryValuation{
		TotalProducts: result.TotalProducts,
		TotalUnits:    result.TotalUnits,
		TotalValue:    result.TotalValue,
		LowStock:      result.LowStock,
		OutOfStock:    result.OutOfStock,
	}, nil
}

// Ensure GormAnalyticsRepository implements AnalyticsRepository
var _ report.AnalyticsRepository = (*GormAnalyticsRepository)(nil)
