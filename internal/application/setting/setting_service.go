package setting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/setting"
	"github.com/pos/backend/internal/domain/shared"
)

// UpsertSettingRequest sets one key to a value
type UpsertSettingRequest struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value" binding:"required,max=1000"`
}

// SettingResponse represents a setting in API responses
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingService manages store configuration key/value pairs
type SettingService struct {
	repo   setting.Repository
	logger *zap.Logger
}

// NewSettingService creates a new SettingService
func NewSettingService(repo setting.Repository, logger *zap.Logger) *SettingService {
	return &SettingService{repo: repo, logger: logger}
}

// Upsert creates the setting or replaces its value
func (s *SettingService) Upsert(ctx context.Context, req UpsertSettingRequest) (*SettingResponse, error) {
	existing, err := s.repo.FindByKey(ctx, req.Key)
	switch {
	case err == nil:
		existing.SetValue(req.Value)
	case errors.Is(err, shared.ErrNotFound):
		existing, err = setting.NewSetting(req.Key, req.Value)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("setting updated", zap.String("key", existing.Key))
	return toResponse(existing), nil
}

// Get retrieves one setting by key
func (s *SettingService) Get(ctx context.Context, key string) (*SettingResponse, error) {
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return toResponse(row), nil
}

// GetOrDefault retrieves a setting's value, falling back when unset
func (s *SettingService) GetOrDefault(ctx context.Context, key, fallback string) (string, error) {
	row, err := s.repo.FindByKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

// List retrieves all settings
func (s *SettingService) List(ctx context.Context) ([]SettingResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]SettingResponse, len(rows))
	for i := range rows {
		responses[i] = *toResponse(&rows[i])
	}
	return responses, nil
}

// Delete removes a setting, reverting readers to their defaults
func (s *SettingService) Delete(ctx context.Context, key string) error {
	if _, err := s.repo.FindByKey(ctx, key); err != nil {
		return err
	}
	return s.repo.Delete(ctx, key)
}

func toResponse(row *setting.Setting) *SettingResponse {
	return &SettingResponse{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt}
}
