package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// InventoryRepository covers products and the stock-movement log. Stock
// mutations are read-modify-write at the handler level; every change also
// writes an InventoryLog row.
type InventoryRepository interface {
	ListProducts(ctx context.Context, clientID string, filter ProductFilters) ([]*domain.Product, error)
	GetProduct(ctx context.Context, clientID, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error

	ListLogs(ctx context.Context, clientID string, filter InventoryLogFilters) ([]*domain.InventoryLog, error)
	CreateLog(ctx context.Context, log *domain.InventoryLog) (*domain.InventoryLog, error)
}

// ProductFilters narrows ListProducts.
type ProductFilters struct {
	Category   string
	Search     string
	ActiveOnly bool
}

// InventoryLogFilters narrows ListLogs.
type InventoryLogFilters struct {
	ProductID string
	Type      string // stock-in | stock-out | auto-deduct | adjustment
}
