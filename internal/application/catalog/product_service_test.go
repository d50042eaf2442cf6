package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
	seq      int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.Code == code {
			clone := *product
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *stubProductRepo) FindLowStock(context.Context) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, product := range r.products {
		if product.IsLowStock() {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Save(_ context.Context, product *catalog.Product) error {
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

func (r *stubProductRepo) NextCode(context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PROD%03d", r.seq), nil
}

type stubCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *stubCategoryRepo) FindAll(context.Context, shared.Filter) ([]catalog.Category, error) {
	result := make([]catalog.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

func (r *stubCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *stubCategoryRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, category := range r.categories {
		if category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type stubRefCounter struct {
	count int64
}

func (r *stubRefCounter) CountByProduct(context.Context, uuid.UUID) (int64, error) {
	return r.count, nil
}

func newProductService(saleRefs, purchaseRefs int64) (*ProductService, *stubProductRepo, *stubCategoryRepo) {
	productRepo := newStubProductRepo()
	categoryRepo := newStubCategoryRepo()
	service := NewProductService(productRepo, categoryRepo,
		&stubRefCounter{count: saleRefs}, &stubRefCounter{count: purchaseRefs}, zap.NewNop())
	return service, productRepo, categoryRepo
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("generates sequential codes when none is given", func(t *testing.T) {
		service, _, _ := newProductService(0, 0)

		first, err := service.Create(ctx, CreateProductRequest{
			Name:          "Mineral Water 1L",
			PurchasePrice: decimal.NewFromFloat(0.50),
			SalePrice:     decimal.NewFromFloat(1.25),
		})
		require.NoError(t, err)
		assert.Equal(t, "PROD001", first.Code)
		assert.EqualValues(t, 0, first.Quantity)

		second, err := service.Create(ctx, CreateProductRequest{Name: "Soap"})
		require.NoError(t, err)
		assert.Equal(t, "PROD002", second.Code)
	})

	t.Run("rejects duplicate explicit codes", func(t *testing.T) {
		service, _, _ := newProductService(0, 0)

		_, err := service.Create(ctx, CreateProductRequest{Code: "WATER-1L", Name: "Mineral Water 1L"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateProductRequest{Code: "WATER-1L", Name: "Another Water"})
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		service, _, _ := newProductService(0, 0)
		missing := uuid.New()

		_, err := service.Create(ctx, CreateProductRequest{Name: "Soap", CategoryID: &missing})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})

	t.Run("assigns an existing category", func(t *testing.T) {
		service, _, categoryRepo := newProductService(0, 0)
		category, err := catalog.NewCategory("Beverages", "")
		require.NoError(t, err)
		require.NoError(t, categoryRepo.Save(ctx, category))

		resp, err := service.Create(ctx, CreateProductRequest{Name: "Mineral Water 1L", CategoryID: &category.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, category.ID, *resp.CategoryID)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()
	service, productRepo, _ := newProductService(0, 0)

	created, err := service.Create(ctx, CreateProductRequest{
		Name:          "Mineral Water 1L",
		PurchasePrice: decimal.NewFromFloat(0.50),
		SalePrice:     decimal.NewFromFloat(1.25),
	})
	require.NoError(t, err)

	// stock credited outside the update path
	stored := productRepo.products[created.ID]
	require.NoError(t, stored.IncreaseStock(7))

	updated, err := service.Update(ctx, created.ID, UpdateProductRequest{
		Name:          "Mineral Water 1.5L",
		SalePrice:     decimal.NewFromFloat(1.50),
		PurchasePrice: decimal.NewFromFloat(0.60),
		MinQuantity:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mineral Water 1.5L", updated.Name)
	// quantity survives the update untouched
	assert.EqualValues(t, 7, updated.Quantity)
	assert.EqualValues(t, 3, updated.MinQuantity)
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unreferenced products", func(t *testing.T) {
		service, productRepo, _ := newProductService(0, 0)
		created, err := service.Create(ctx, CreateProductRequest{Name: "Soap"})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, created.ID))
		assert.Empty(t, productRepo.products)
	})

	t.Run("refuses to delete products on invoices", func(t *testing.T) {
		service, productRepo, _ := newProductService(2, 0)
		created, err := service.Create(ctx, CreateProductRequest{Name: "Soap"})
		require.NoError(t, err)

		err = service.Delete(ctx, created.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REFERENTIAL_CONFLICT", domainErr.Code)
		assert.Len(t, productRepo.products, 1)
	})
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*CategoryService, *stubCategoryRepo, *stubProductRepo) {
		categoryRepo := newStubCategoryRepo()
		productRepo := newStubProductRepo()
		return NewCategoryService(categoryRepo, productRepo, zap.NewNop()), categoryRepo, productRepo
	}

	t.Run("creates and rejects duplicate names", func(t *testing.T) {
		service, _, _ := newService()

		_, err := service.Create(ctx, CreateCategoryRequest{Name: "Beverages"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateCategoryRequest{Name: "Beverages"})
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("refuses to delete a category with products", func(t *testing.T) {
		service, _, productRepo := newService()

		created, err := service.Create(ctx, CreateCategoryRequest{Name: "Beverages"})
		require.NoError(t, err)

		product, err := catalog.NewProduct("PROD001", "Mineral Water 1L", decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		product.SetCategory(&created.ID)
		require.NoError(t, productRepo.Save(ctx, product))

		err = service.Delete(ctx, created.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REFERENTIAL_CONFLICT", domainErr.Code)
	})
}
