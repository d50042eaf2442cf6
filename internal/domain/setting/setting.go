package setting

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/shared"
)

// Well-known setting keys
const (
	KeyStoreName         = "store_name"
	KeyCurrency          = "currency"
	KeyVATRate           = "vat_rate"
	KeyLowStockThreshold = "low_stock_threshold"
)

// Setting is one key/value configuration row. Settings are advisory:
// reports read them, but the invoice engine does not enforce them.
type Setting struct {
	shared.BaseEntity
	Key   string `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NewSetting creates a setting
func NewSetting(key, value string) (*Setting, error) {
	if key == "" || len(key) > 100 {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key must be 1-100 characters")
	}
	return &Setting{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Value:      value,
	}, nil
}

// SetValue replaces the stored value
func (s *Setting) SetValue(value string) {
	s.Value = value
	s.UpdatedAt = time.Now()
}

// Repository defines the interface for settings persistence
type Repository interface {
	FindByKey(ctx context.Context, key string) (*Setting, error)
	FindAll(ctx context.Context) ([]Setting, error)
	Save(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, key string) error
}
