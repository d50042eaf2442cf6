package setting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/setting"
	"github.com/pos/backend/internal/domain/shared"
)

type stubSettingRepo struct {
	rows map[string]*setting.Setting
}

func newStubSettingRepo() *stubSettingRepo {
	return &stubSettingRepo{rows: make(map[string]*setting.Setting)}
}

func (r *stubSettingRepo) FindByKey(_ context.Context, key string) (*setting.Setting, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubSettingRepo) FindAll(context.Context) ([]setting.Setting, error) {
	result := make([]setting.Setting, 0, len(r.rows))
	for _, row := range r.rows {
		result = append(result, *row)
	}
	return result, nil
}

func (r *stubSettingRepo) Save(_ context.Context, row *setting.Setting) error {
	clone := *row
	r.rows[row.Key] = &clone
	return nil
}

func (r *stubSettingRepo) Delete(_ context.Context, key string) error {
	delete(r.rows, key)
	return nil
}

func TestSettingService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*SettingService, *stubSettingRepo) {
		repo := newStubSettingRepo()
		return NewSettingService(repo, zap.NewNop()), repo
	}

	t.Run("upsert creates then replaces", func(t *testing.T) {
		service, _ := newService()

		created, err := service.Upsert(ctx, UpsertSettingRequest{Key: setting.KeyStoreName, Value: "Corner Shop"})
		require.NoError(t, err)
		assert.Equal(t, "Corner Shop", created.Value)

		updated, err := service.Upsert(ctx, UpsertSettingRequest{Key: setting.KeyStoreName, Value: "Corner Shop 2"})
		require.NoError(t, err)
		assert.Equal(t, "Corner Shop 2", updated.Value)

		rows, err := service.List(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("get or default falls back for unset keys", func(t *testing.T) {
		service, _ := newService()

		value, err := service.GetOrDefault(ctx, setting.KeyCurrency, "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", value)

		_, err = service.Upsert(ctx, UpsertSettingRequest{Key: setting.KeyCurrency, Value: "EUR"})
		require.NoError(t, err)

		value, err = service.GetOrDefault(ctx, setting.KeyCurrency, "USD")
		require.NoError(t, err)
		assert.Equal(t, "EUR", value)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		service, repo := newService()

		_, err := service.Upsert(ctx, UpsertSettingRequest{Key: setting.KeyVATRate, Value: "0.19"})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, setting.KeyVATRate))
		assert.Empty(t, repo.rows)

		err = service.Delete(ctx, setting.KeyVATRate)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
