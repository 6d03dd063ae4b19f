package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"products-api/internal/models"
	"products-api/internal/repositories"
)

// productService implements the ProductService interface
type productService struct {
	productRepo repositories.ProductRepository
	validator   *validator.Validate
	logger      *logrus.Logger
}

// ServiceOption configures a product service
type ServiceOption func(*productService)

// WithStrictValidation enforces the validate tags on models.Product for
// create and replace. Without it any decodable body is stored as sent.
func WithStrictValidation() ServiceOption {
	return func(s *productService) {
		s.validator = validator.New()
	}
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, logger *logrus.Logger, opts ...ServiceOption) ProductService {
	if logger == nil {
		logger = logrus.New()
	}
	s := &productService{
		productRepo: productRepo,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetProduct retrieves a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts returns the bounded product listing
func (s *productService) ListProducts(ctx context.Context) (models.Products, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct stores the product under a new ID, ignoring any ID in the body
func (s *productService) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	if err := s.validate(product); err != nil {
		return "", err
	}

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product created")
	return id, nil
}

// ReplaceProduct writes the product at id. The body ID must match id.
func (s *productService) ReplaceProduct(ctx context.Context, id string, product *models.Product) error {
	if !product.HasID(id) {
		return ErrIDMismatch
	}

	if err := s.validate(product); err != nil {
		return err
	}

	if err := s.productRepo.Put(ctx, product); err != nil {
		return fmt.Errorf("failed to put product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product stored")
	return nil
}

// DeleteProduct removes an existing product; a missing product is reported as not found
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product deleted")
	return nil
}

func (s *productService) validate(product *models.Product) error {
	if product == nil {
		return fmt.Errorf("%w: product body is required", ErrValidation)
	}

	if s.validator == nil {
		return nil
	}
	if err := s.validator.Struct(product); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}
