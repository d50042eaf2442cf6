package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/application/report"
)

// ReportHandler handles dashboard and analytics endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns today's headline numbers
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// SalesTrend returns daily sales totals for a period
func (h *ReportHandler) SalesTrend(c *gin.Context) {
	var filter report.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	trend, err := h.reportService.GetSalesTrend(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}

// Profit returns revenue, cost and gross profit for a period
func (h *ReportHandler) Profit(c *gin.Context) {
	var filter report.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	profit, err := h.reportService.GetProfitReport(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profit)
}

// TopProducts returns the best selling products for a period
func (h *ReportHandler) TopProducts(c *gin.Context) {
	var filter report.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	products, err := h.reportService.GetTopProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// TopCustomers returns the highest spending customers for a period
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	var filter report.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	customers, err := h.reportService.GetTopCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customers)
}

// InventoryValuation returns the stock valuation snapshot
func (h *ReportHandler) InventoryValuation(c *gin.Context) {
	valuation, err := h.reportService.GetInventoryValuation(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, valuation)
}
