package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/inventory"
)

// AdjustmentMode selects how the requested quantity is applied
type AdjustmentMode string

const (
	ModeAdd      AdjustmentMode = "add"
	ModeSubtract AdjustmentMode = "subtract"
	ModeSet      AdjustmentMode = "set"
)

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID uuid.UUID      `json:"product_id" binding:"required"`
	Mode      AdjustmentMode `json:"mode" binding:"required,oneof=add subtract set"`
	Quantity  int64          `json:"quantity" binding:"min=0"`
	Reason    string         `json:"reason" binding:"required,max=100"`
	Notes     string         `json:"notes" binding:"max=500"`
}

// MovementListFilter represents query parameters for listing movements
type MovementListFilter struct {
	ProductID     *uuid.UUID `form:"product_id"`
	MovementType  string     `form:"movement_type" binding:"omitempty,oneof=in out adjustment"`
	ReferenceType string     `form:"reference_type" binding:"omitempty,oneof=sale purchase manual"`
	DateFrom      *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	ProductName    string     `json:"product_name"`
	MovementType   string     `json:"movement_type"`
	QuantityBefore int64      `json:"quantity_before"`
	QuantityChange int64      `json:"quantity_change"`
	QuantityAfter  int64      `json:"quantity_after"`
	Reason         string     `json:"reason"`
	ReferenceType  string     `json:"reference_type"`
	ReferenceID    *uuid.UUID `json:"reference_id,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	MovementDate   time.Time  `json:"movement_date"`
}

// AdjustStockResponse reports the outcome of an adjustment. Movement
// is nil when a set adjustment targeted the current quantity, since
// nothing moved.
type AdjustStockResponse struct {
	Movement *MovementResponse `json:"movement,omitempty"`
	Quantity int64             `json:"quantity"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		MovementType:   string(m.MovementType),
		QuantityBefore: m.QuantityBefore,
		QuantityChange: m.QuantityChange,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ReferenceType:  string(m.ReferenceType),
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		MovementDate:   m.MovementDate,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}
