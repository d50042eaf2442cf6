package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies the document that caused a movement
type ReferenceType string

const (
	RefSale     ReferenceType = "sale"
	RefPurchase ReferenceType = "purchase"
	RefManual   ReferenceType = "manual"
)

// StockMovement is an immutable audit record of one change to a
// product's on-hand quantity. Every invoice line commit and every
// manual adjustment appends exactly one movement.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName    string        `gorm:"type:varchar(200);not null" json:"product_name"`
	MovementType   MovementType  `gorm:"type:varchar(20);not null;index" json:"movement_type"`
	QuantityBefore int64         `gorm:"not null" json:"quantity_before"`
	QuantityChange int64         `gorm:"not null" json:"quantity_change"`
	QuantityAfter  int64         `gorm:"not null" json:"quantity_after"`
	Reason         string        `gorm:"type:varchar(100);not null" json:"reason"`
	ReferenceType  ReferenceType `gorm:"type:varchar(20);not null;default:'manual'" json:"reference_type"`
	ReferenceID    *uuid.UUID    `gorm:"type:uuid;index" json:"reference_id"`
	Notes          string        `gorm:"type:text" json:"notes"`
	MovementDate   time.Time     `gorm:"not null;index" json:"movement_date"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records one stock change. QuantityChange is signed;
// before plus change must equal after.
func NewStockMovement(
	productID uuid.UUID,
	productName string,
	movementType MovementType,
	quantityBefore, quantityChange int64,
	reason string,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantityChange == 0 {
		return nil, shared.ErrInvalidQuantity
	}
	quantityAfter := quantityBefore + quantityChange
	if quantityAfter < 0 {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		ProductName:    productName,
		MovementType:   movementType,
		QuantityBefore: quantityBefore,
		QuantityChange: quantityChange,
		QuantityAfter:  quantityAfter,
		Reason:         reason,
		ReferenceType:  RefManual,
		MovementDate:   time.Now(),
	}, nil
}

// WithReference attaches the source document to the movement
func (m *StockMovement) WithReference(refType ReferenceType, refID uuid.UUID) *StockMovement {
	m.ReferenceType = refType
	m.ReferenceID = &refID
	return m
}

// WithNotes sets free-form notes on the movement
func (m *StockMovement) WithNotes(notes string) *StockMovement {
	m.Notes = notes
	return m
}
