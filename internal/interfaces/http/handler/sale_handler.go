package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/application/trade"
)

// SaleHandler handles sales invoice endpoints
type SaleHandler struct {
	BaseHandler
	saleService *trade.SaleInvoiceService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *trade.SaleInvoiceService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create posts a sales invoice, updating stock, balances and the
// cash ledger in one transaction
func (h *SaleHandler) Create(c *gin.Context) {
	var req trade.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Update replaces an invoice's lines, reversing and reapplying its effects
func (h *SaleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req trade.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Delete voids an invoice, reversing all of its effects
func (h *SaleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns one sales invoice with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns sales invoices matching the filter, paginated
func (h *SaleHandler) List(c *gin.Context) {
	var filter trade.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := normalizePaging(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, sales, total, page, pageSize)
}

// PreviewTotals computes invoice totals for a draft without posting it
func (h *SaleHandler) PreviewTotals(c *gin.Context) {
	var req trade.PreviewTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	totals, err := h.saleService.PreviewTotals(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}
