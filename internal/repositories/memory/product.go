// Package memory provides in-memory repository implementations used by tests
// and by the "memory" store backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"products-api/internal/models"
	"products-api/internal/repositories"
)

// ProductRepository is an in-memory implementation of repositories.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	err      error
	calls    map[string]int
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]models.Product),
		calls:    make(map[string]int),
	}
}

// FailWith makes every subsequent operation fail with a store error wrapping err.
// Passing nil restores normal behaviour.
func (r *ProductRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns how many times the named operation was invoked
func (r *ProductRepository) Calls(op string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls[op]
}

// Len returns the number of stored products
func (r *ProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// GetByID implements repositories.ProductRepository.GetByID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, repositories.InvalidIDError("get_by_id", "product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["get_by_id"]++

	if r.err != nil {
		return nil, repositories.StoreError("get_by_id", "product", id, r.err)
	}

	product, ok := r.products[id]
	if !ok {
		return nil, repositories.NotFoundError("product", id)
	}
	return &product, nil
}

// Put implements repositories.ProductRepository.Put
func (r *ProductRepository) Put(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == "" {
		return repositories.InvalidIDError("put", "product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["put"]++

	if r.err != nil {
		return repositories.StoreError("put", "product", product.ID, r.err)
	}

	r.products[product.ID] = *product
	return nil
}

// Create implements repositories.ProductRepository.Create
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	product.ID = models.NewID()
	if err := r.Put(ctx, product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// Delete implements repositories.ProductRepository.Delete
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return repositories.InvalidIDError("delete", "product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["delete"]++

	if r.err != nil {
		return repositories.StoreError("delete", "product", id, r.err)
	}

	delete(r.products, id)
	return nil
}

// List implements repositories.ProductRepository.List.
// Results are ordered by ID so tests see a stable view.
func (r *ProductRepository) List(ctx context.Context) (models.Products, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["list"]++

	if r.err != nil {
		return nil, repositories.StoreError("list", "product", "", r.err)
	}

	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := make(models.Products, 0, repositories.ListLimit)
	for _, id := range ids {
		if len(products) == repositories.ListLimit {
			break
		}
		product := r.products[id]
		products = append(products, &product)
	}
	return products, nil
}
