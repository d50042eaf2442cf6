package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product. An
// empty code asks the service to generate the next one.
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"omitempty,max=50"`
	Name          string          `json:"name" binding:"required,max=200"`
	Description   string          `json:"description" binding:"max=1000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit" binding:"omitempty,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" binding:"gte=0"`
	MinQuantity   int64           `json:"min_quantity" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product.
// Quantity is absent on purpose: stock changes only through invoices
// and manual adjustments.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	Description   string          `json:"description" binding:"max=1000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit" binding:"omitempty,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" binding:"gte=0"`
	MinQuantity   int64           `json:"min_quantity" binding:"min=0"`
}

// ProductListFilter represents query parameters for listing products
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	LowStock   bool       `form:"low_stock"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=name code quantity sale_price created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" binding:"gte=0"`
	Quantity      int64           `json:"quantity"`
	MinQuantity   int64           `json:"min_quantity"`
	LowStock      bool            `json:"low_stock"`
	StockValue    decimal.Decimal `json:"stock_value"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      p.Quantity,
		MinQuantity:   p.MinQuantity,
		LowStock:      p.IsLowStock(),
		StockValue:    p.StockValue(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
