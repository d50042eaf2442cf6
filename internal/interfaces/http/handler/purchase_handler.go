package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/application/trade"
)

// PurchaseHandler handles purchase invoice endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *trade.PurchaseInvoiceService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *trade.PurchaseInvoiceService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create posts a purchase invoice, updating stock, balances and the
// cash ledger in one transaction
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req trade.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, purchase)
}

// Update replaces an invoice's lines, reversing and reapplying its effects
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req trade.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	purchase, err := h.purchaseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Delete voids an invoice, reversing all of its effects
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns one purchase invoice with its lines
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// List returns purchase invoices matching the filter, paginated
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter trade.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	purchases, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := normalizePaging(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, purchases, total, page, pageSize)
}
