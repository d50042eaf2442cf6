package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/shared"
)

// ReportService provides read-only analytics over committed invoices,
// stock, and the cash ledger
type ReportService struct {
	analyticsRepo report.AnalyticsRepository
}

// NewReportService creates a new ReportService
func NewReportService(analyticsRepo report.AnalyticsRepository) *ReportService {
	return &ReportService{analyticsRepo: analyticsRepo}
}

// PeriodFilter bounds a report to a date range
type PeriodFilter struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02" binding:"required"`
	TopN      int       `form:"top_n"`
}

// SalesTrendPoint is one day in the filled sales trend
type SalesTrendPoint struct {
	Date         string          `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
}

// ProfitReportResponse summarizes period profitability
type ProfitReportResponse struct {
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

// RankedProduct is a product ranking entry with its position
type RankedProduct struct {
	Rank int `json:"rank"`
	report.ProductRanking
}

// RankedCustomer is a customer ranking entry with its position
type RankedCustomer struct {
	Rank int `json:"rank"`
	report.CustomerRanking
}

const defaultTopN = 10

// GetDashboard returns the store dashboard figures
func (s *ReportService) GetDashboard(ctx context.Context) (*report.DashboardStats, error) {
	return s.analyticsRepo.DashboardStats(ctx)
}

// GetSalesTrend returns one point per day across the period. Days
// without sales appear as zero points so charts stay continuous.
func (s *ReportService) GetSalesTrend(ctx context.Context, filter PeriodFilter) ([]SalesTrendPoint, error) {
	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	points, err := s.analyticsRepo.DailySales(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]report.DailySalesPoint, len(points))
	for _, point := range points {
		byDay[point.Date.Format("2006-01-02")] = point
	}

	var trend []SalesTrendPoint
	for day := dateOnly(filter.StartDate); !day.After(dateOnly(filter.EndDate)); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		entry := SalesTrendPoint{Date: key, TotalSales: decimal.Zero, TotalPaid: decimal.Zero}
		if point, ok := byDay[key]; ok {
			entry.InvoiceCount = point.InvoiceCount
			entry.TotalSales = point.TotalSales
			entry.TotalPaid = point.TotalPaid
		}
		trend = append(trend, entry)
	}
	return trend, nil
}

// GetProfitReport returns revenue, cost, and margin for the period
func (s *ReportService) GetProfitReport(ctx context.Context, filter PeriodFilter) (*ProfitReportResponse, error) {
	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	totals, err := s.analyticsRepo.ProfitTotals(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	profit := totals.Revenue.Sub(totals.Cost)
	margin := decimal.Zero
	if totals.Revenue.IsPositive() {
		margin = profit.Div(totals.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &ProfitReportResponse{
		PeriodStart:  filter.StartDate.Format("2006-01-02"),
		PeriodEnd:    filter.EndDate.Format("2006-01-02"),
		Revenue:      totals.Revenue,
		Cost:         totals.Cost,
		GrossProfit:  profit,
		ProfitMargin: margin,
	}, nil
}

// GetTopProducts returns the best-selling products with ranks assigned
func (s *ReportService) GetTopProducts(ctx context.Context, filter PeriodFilter) ([]RankedProduct, error) {
	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	limit := filter.TopN
	if limit <= 0 {
		limit = defaultTopN
	}
	rankings, err := s.analyticsRepo.TopProducts(ctx, filter.StartDate, filter.EndDate, limit)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedProduct, len(rankings))
	for i, r := range rankings {
		ranked[i] = RankedProduct{Rank: i + 1, ProductRanking: r}
	}
	return ranked, nil
}

// GetTopCustomers returns the highest-revenue customers with ranks
func (s *ReportService) GetTopCustomers(ctx context.Context, filter PeriodFilter) ([]RankedCustomer, error) {
	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	limit := filter.TopN
	if limit <= 0 {
		limit = defaultTopN
	}
	rankings, err := s.analyticsRepo.TopCustomers(ctx, filter.StartDate, filter.EndDate, limit)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCustomer, len(rankings))
	for i, r := range rankings {
		ranked[i] = RankedCustomer{Rank: i + 1, CustomerRanking: r}
	}
	return ranked, nil
}

// GetInventoryValuation values on-hand stock at purchase price
func (s *ReportService) GetInventoryValuation(ctx context.Context) (*report.InventoryValuation, error) {
	return s.analyticsRepo.InventoryValuation(ctx)
}

func validatePeriod(filter PeriodFilter) error {
	if filter.EndDate.Before(filter.StartDate) {
		return shared.NewDomainError("INVALID_PERIOD", "End date cannot be before start date")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
