package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is a read model for the store dashboard
type DashboardStats struct {
	TodaySales      decimal.Decimal `json:"today_sales"`
	TodayPurchases  decimal.Decimal `json:"today_purchases"`
	TodayInvoices   int64           `json:"today_invoices"`
	CashBalance     decimal.Decimal `json:"cash_balance"`
	ProductCount    int64           `json:"product_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	CustomerCount   int64           `json:"customer_count"`
	SupplierCount   int64           `json:"supplier_count"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

// DailySalesPoint is one day in the sales trend. Days without sales
// are absent from storage; the report layer fills them in.
type DailySalesPoint struct {
	Date         time.Time       `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
}

// ProductRanking aggregates sales of one product over a period
type ProductRanking struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// CustomerRanking aggregates sales to one customer over a period
type CustomerRanking struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// ProfitTotals holds period revenue and cost. Cost is the purchase
// price of the sold units frozen on the sale lines' products.
type ProfitTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
}

// InventoryValuation values on-hand stock at purchase price
type InventoryValuation struct {
	TotalProducts int64           `json:"total_products"`
	TotalUnits    int64           `json:"total_units"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStock      int64           `json:"low_stock"`
	OutOfStock    int64           `json:"out_of_stock"`
}

// AnalyticsRepository reads aggregated figures straight from storage.
// Implementations run SQL aggregations; nothing here mutates state.
type AnalyticsRepository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)

	// DailySales returns one point per day that had sales, ascending
	DailySales(ctx context.Context, from, to time.Time) ([]DailySalesPoint, error)

	// TopProducts returns the best-selling products by amount, descending
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductRanking, error)

	// TopCustomers returns the highest-revenue customers, descending
	TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerRanking, error)

	ProfitTotals(ctx context.Context, from, to time.Time) (*ProfitTotals, error)

	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
}
