package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"products-api/internal/models"
	"products-api/internal/repositories"
)

// ProductRepository implements repositories.ProductRepository on a DynamoDB table
// keyed by a single string partition key holding the product ID.
type ProductRepository struct {
	client ItemAPI
	table  string
	logger *logrus.Logger
}

// NewProductRepository creates a new DynamoDB product repository
func NewProductRepository(client ItemAPI, table string, logger *logrus.Logger) *ProductRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &ProductRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// GetByID implements repositories.ProductRepository.GetByID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, repositories.InvalidIDError("get_by_id", "product")
	}

	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            productKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.logError("get_by_id", id, err)
		return nil, repositories.StoreError("get_by_id", "product", id, err)
	}

	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("product", id)
	}

	product, err := productFromItem(out.Item)
	if err != nil {
		r.logError("get_by_id", id, err)
		return nil, repositories.StoreError("get_by_id", "product", id, err)
	}
	return product, nil
}

// Put implements repositories.ProductRepository.Put.
// It returns once DynamoDB has acknowledged the write.
func (r *ProductRepository) Put(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == "" {
		return repositories.InvalidIDError("put", "product")
	}

	item, err := productToItem(product)
	if err != nil {
		return repositories.StoreError("put", "product", product.ID, err)
	}

	if _, err := r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		r.logError("put", product.ID, err)
		return repositories.StoreError("put", "product", product.ID, err)
	}
	return nil
}

// Create implements repositories.ProductRepository.Create
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	product.ID = models.NewID()
	if err := r.Put(ctx, product); err != nil {
		return "", err
	}

	r.logger.WithField("product_id", product.ID).Debug("Product created")
	return product.ID, nil
}

// Delete implements repositories.ProductRepository.Delete
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return repositories.InvalidIDError("delete", "product")
	}

	if _, err := r.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       productKey(id),
	}); err != nil {
		r.logError("delete", id, err)
		return repositories.StoreError("delete", "product", id, err)
	}
	return nil
}

// List implements repositories.ProductRepository.List with a single bounded Scan.
// Continuation keys are ignored, so large tables yield a partial view.
func (r *ProductRepository) List(ctx context.Context) (models.Products, error) {
	out, err := r.client.Scan(ctx, &ddb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(repositories.ListLimit),
	})
	if err != nil {
		r.logError("list", "", err)
		return nil, repositories.StoreError("list", "product", "", err)
	}

	r.logger.WithField("count", out.Count).Info("Scan returned items")

	products := make(models.Products, 0, len(out.Items))
	for _, item := range out.Items {
		if len(products) == repositories.ListLimit {
			break
		}
		product, err := productFromItem(item)
		if err != nil {
			r.logError("list", "", err)
			return nil, repositories.StoreError("list", "product", "", err)
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *ProductRepository) logError(op, id string, err error) {
	fields := logrus.Fields{
		"table":     r.table,
		"operation": op,
	}
	if id != "" {
		fields["product_id"] = id
	}
	r.logger.WithFields(fields).WithError(err).Error("DynamoDB operation failed")
}
