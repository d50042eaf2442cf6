package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/application/setting"
)

// SettingHandler handles store configuration endpoints
type SettingHandler struct {
	BaseHandler
	settingService *setting.SettingService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingService *setting.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// Upsert creates a setting or replaces its value
func (h *SettingHandler) Upsert(c *gin.Context) {
	var req setting.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.settingService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns one setting by key
func (h *SettingHandler) Get(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		h.BadRequest(c, "Setting key is required")
		return
	}

	result, err := h.settingService.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns all settings
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// Delete removes a setting
func (h *SettingHandler) Delete(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		h.BadRequest(c, "Setting key is required")
		return
	}

	if err := h.settingService.Delete(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
