package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/application/finance"
)

// CashHandler handles cash ledger endpoints
type CashHandler struct {
	BaseHandler
	cashService *finance.CashService
}

// NewCashHandler creates a new CashHandler
func NewCashHandler(cashService *finance.CashService) *CashHandler {
	return &CashHandler{cashService: cashService}
}

// Deposit records a manual cash deposit
func (h *CashHandler) Deposit(c *gin.Context) {
	var req finance.CashEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.cashService.Deposit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// Withdraw records a manual cash withdrawal
func (h *CashHandler) Withdraw(c *gin.Context) {
	var req finance.CashEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.cashService.Withdraw(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// Balance returns the current cash balance
func (h *CashHandler) Balance(c *gin.Context) {
	balance, err := h.cashService.Balance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// List returns ledger entries matching the filter, paginated
func (h *CashHandler) List(c *gin.Context) {
	var filter finance.CashListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, total, err := h.cashService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := normalizePaging(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}
