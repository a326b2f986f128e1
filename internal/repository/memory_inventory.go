package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryInventoryRepo is the dev/test fallback for products and stock
// movement logs.
type MemoryInventoryRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	logs     map[string]domain.InventoryLog
}

func NewMemoryInventoryRepo() *MemoryInventoryRepo {
	return &MemoryInventoryRepo{
		products: map[string]domain.Product{},
		logs:     map[string]domain.InventoryLog{},
	}
}

var _ InventoryRepository = (*MemoryInventoryRepo)(nil)

func cloneProduct(p domain.Product) *domain.Product {
	out := p
	out.TreatmentTypes = append([]string(nil), p.TreatmentTypes...)
	return &out
}

func (r *MemoryInventoryRepo) ListProducts(_ context.Context, clientID string, filter ProductFilters) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	products := []*domain.Product{}
	for _, p := range r.products {
		if p.ClientID != clientID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		products = append(products, cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *MemoryInventoryRepo) GetProduct(_ context.Context, clientID, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok || p.ClientID != clientID {
		return nil, fmt.Errorf("product not found: id '%s' %w", id, ErrNotFound)
	}
	return cloneProduct(p), nil
}

func (r *MemoryInventoryRepo) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil || product.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if product.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.TreatmentTypes == nil {
		product.TreatmentTypes = []string{}
	}
	r.products[product.ID] = *cloneProduct(*product)
	return product, nil
}

func (r *MemoryInventoryRepo) UpdateProduct(_ context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return fmt.Errorf("product id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[product.ID]
	if !ok || existing.ClientID != product.ClientID {
		return fmt.Errorf("product not found: id '%s' %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *cloneProduct(*product)
	return nil
}

func (r *MemoryInventoryRepo) ListLogs(_ context.Context, clientID string, filter InventoryLogFilters) ([]*domain.InventoryLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := []*domain.InventoryLog{}
	for _, l := range r.logs {
		if l.ClientID != clientID {
			continue
		}
		if filter.ProductID != "" && l.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		out := l
		logs = append(logs, &out)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].CreatedAt > logs[j].CreatedAt })
	return logs, nil
}

func (r *MemoryInventoryRepo) CreateLog(_ context.Context, log *domain.InventoryLog) (*domain.InventoryLog, error) {
	if log == nil || log.ClientID == "" || log.ProductID == "" {
		return nil, fmt.Errorf("client_id and product_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.logs[log.ID] = *log
	return log, nil
}
