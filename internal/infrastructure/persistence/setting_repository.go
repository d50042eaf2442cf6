package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/setting"
	"github.com/pos/backend/internal/domain/shared"
)

// GormSettingRepository implements setting.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByKey finds a setting by its key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*setting.Setting, error) {
	var s setting.Setting
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll returns all settings ordered by key
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]setting.Setting, error) {
	var settings []setting.Setting
	if err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Save creates or updates a setting
func (r *GormSettingRepository) Save(ctx context.Context, s *setting.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a setting by key
func (r *GormSettingRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&setting.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSettingRepository implements setting.Repository
var _ setting.Repository = (*GormSettingRepository)(nil)
