package services

import (
	"context"
	"errors"

	"products-api/internal/models"
)

var (
	// ErrIDMismatch is returned when a replacement body names a different product than the path
	ErrIDMismatch = errors.New("product ID in the body does not match path parameter")

	// ErrValidation wraps field validation failures
	ErrValidation = errors.New("validation failed")
)

// ProductService defines the product operations exposed to the dispatcher
type ProductService interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) (models.Products, error)
	CreateProduct(ctx context.Context, product *models.Product) (string, error)
	ReplaceProduct(ctx context.Context, id string, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
