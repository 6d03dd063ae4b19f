package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"products-api/internal/models"
	"products-api/internal/repositories"
)

// ProductRepository implements repositories.ProductRepository for SQLite
type ProductRepository struct {
	baseRepository
}

// NewProductRepository creates a new SQLite product repository.
// The products table must already exist; see database.MigrationManager.
func NewProductRepository(db *sql.DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		baseRepository: newBaseRepository(db, "products", logger),
	}
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, repositories.InvalidIDError("get_by_id", "product")
	}

	row := r.executeQueryRow(ctx, "get_by_id", "SELECT id, name, price FROM products WHERE id = ?", id)

	product := &models.Product{}
	if err := row.Scan(&product.ID, &product.Name, &product.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.StoreError("get_by_id", "product", id, err)
	}
	return product, nil
}

// Put inserts the product or replaces the stored one with the same ID
func (r *ProductRepository) Put(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == "" {
		return repositories.InvalidIDError("put", "product")
	}

	query := `
		INSERT INTO products (id, name, price) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price`

	_, err := r.executeExec(ctx, "put", product.ID, query, product.ID, product.Name, product.Price)
	return err
}

// Create stores the product under a freshly generated ID
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	product.ID = models.NewID()
	if err := r.Put(ctx, product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// Delete removes a product. Deleting a missing product is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return repositories.InvalidIDError("delete", "product")
	}

	_, err := r.executeExec(ctx, "delete", id, "DELETE FROM products WHERE id = ?", id)
	return err
}

// List returns at most repositories.ListLimit products
func (r *ProductRepository) List(ctx context.Context) (models.Products, error) {
	query := fmt.Sprintf("SELECT id, name, price FROM products ORDER BY id LIMIT %d", repositories.ListLimit)

	rows, err := r.executeQuery(ctx, "list", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(models.Products, 0, repositories.ListLimit)
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Price); err != nil {
			return nil, repositories.StoreError("list", "product", "", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.StoreError("list", "product", "", err)
	}

	r.logger.WithField("count", len(products)).Debug("Listed products")
	return products, nil
}
