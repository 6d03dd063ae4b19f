package repositories

import (
	"context"
	"time"

	"products-api/internal/models"
)

// ListLimit bounds the number of products returned by a single listing
const ListLimit = 20

// ProductRepository bridges product CRUD operations to a key-value store
type ProductRepository interface {
	// GetByID retrieves a product by its ID, returning ErrNotFound when absent
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// Put writes the product at its ID, replacing any existing record
	Put(ctx context.Context, product *models.Product) error

	// Create assigns a new ID to the product, persists it and returns the ID
	Create(ctx context.Context, product *models.Product) (string, error)

	// Delete removes the product with the given ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns at most ListLimit products from a single unordered read
	List(ctx context.Context) (models.Products, error)
}

// IdempotencyRecord is a stored response for a previously handled request
type IdempotencyRecord struct {
	Key        string
	StatusCode int
	Body       []byte
	ExpiresAt  time.Time
}

// Expired reports whether the record is no longer valid at the given time
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IdempotencyStore persists responses of completed requests for replay
type IdempotencyStore interface {
	// Get returns the record for key, or ErrNotFound when missing or expired
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)

	// Save stores the record, replacing any existing record for the same key
	Save(ctx context.Context, record *IdempotencyRecord) error
}
