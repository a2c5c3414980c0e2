package ports

import (
	"context"

	"github.com/agilstore/core/internal/domain/entities"
)

// InventoryService interface for product management operations
type InventoryService interface {
	Load(ctx context.Context) error
	AddProduct(ctx context.Context, req CreateProductRequest) (*entities.Product, error)
	GetProduct(ctx context.Context, id int) (*entities.Product, error)
	ListProducts(ctx context.Context, filter ListFilter) []entities.Product
	UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*UpdateResult, error)
	DeleteProduct(ctx context.Context, id int) error
	SearchByName(ctx context.Context, term string) []entities.Product
}

// CreateProductRequest carries the fields collected by the add operation
type CreateProductRequest struct {
	Name     string
	Category string
	Quantity int
	Price    float64
}

// UpdateProductRequest carries only the fields the user chose to change
type UpdateProductRequest struct {
	Name     *string
	Category *string
	Quantity *int
	Price    *float64
}

// UpdateResult reports the stored product and the fields that were refused
type UpdateResult struct {
	Product  entities.Product
	Changed  []string
	Rejected []string
}
