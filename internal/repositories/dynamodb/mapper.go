package dynamodb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"products-api/internal/models"
)

// PartitionKey is the primary key attribute of the products table
const PartitionKey = "PK"

// productItem is the stored shape of a product
type productItem struct {
	PK    string  `dynamodbav:"PK"`
	Name  string  `dynamodbav:"name"`
	Price float64 `dynamodbav:"price"`
}

func productKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: id},
	}
}

func productToItem(product *models.Product) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(productItem{
		PK:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}
	return item, nil
}

func productFromItem(item map[string]types.AttributeValue) (*models.Product, error) {
	var stored productItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product item: %w", err)
	}
	return &models.Product{
		ID:    stored.PK,
		Name:  stored.Name,
		Price: stored.Price,
	}, nil
}
