package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"products-api/internal/repositories"
)

const (
	// IdempotencyKey is the primary key attribute of the idempotency table
	IdempotencyKey = "id"

	// ExpirationAttribute holds the record expiry in epoch seconds and is the table's TTL attribute
	ExpirationAttribute = "expiration"

	statusCompleted = "COMPLETED"
)

type idempotencyItem struct {
	ID         string `dynamodbav:"id"`
	Expiration int64  `dynamodbav:"expiration"`
	Status     string `dynamodbav:"status"`
	StatusCode int    `dynamodbav:"status_code"`
	Data       string `dynamodbav:"data"`
}

// IdempotencyStore implements repositories.IdempotencyStore on a DynamoDB table.
// DynamoDB TTL deletes expired items lazily, so expiry is also checked on read.
type IdempotencyStore struct {
	client ItemAPI
	table  string
	logger *logrus.Logger
	now    func() time.Time
}

// NewIdempotencyStore creates a new DynamoDB idempotency store
func NewIdempotencyStore(client ItemAPI, table string, logger *logrus.Logger) *IdempotencyStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &IdempotencyStore{
		client: client,
		table:  table,
		logger: logger,
		now:    time.Now,
	}
}

// Get implements repositories.IdempotencyStore.Get
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*repositories.IdempotencyRecord, error) {
	out, err := s.client.GetItem(ctx, &ddb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			IdempotencyKey: &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, repositories.StoreError("get", "idempotency_record", key, err)
	}
	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("idempotency_record", key)
	}

	var item idempotencyItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, repositories.StoreError("get", "idempotency_record", key, err)
	}

	record := &repositories.IdempotencyRecord{
		Key:        item.ID,
		StatusCode: item.StatusCode,
		Body:       []byte(item.Data),
		ExpiresAt:  time.Unix(item.Expiration, 0),
	}
	if item.Status != statusCompleted || record.Expired(s.now()) {
		return nil, repositories.NotFoundError("idempotency_record", key)
	}
	return record, nil
}

// Save implements repositories.IdempotencyStore.Save
func (s *IdempotencyStore) Save(ctx context.Context, record *repositories.IdempotencyRecord) error {
	if record == nil || record.Key == "" {
		return repositories.InvalidIDError("save", "idempotency_record")
	}

	item, err := attributevalue.MarshalMap(idempotencyItem{
		ID:         record.Key,
		Expiration: record.ExpiresAt.Unix(),
		Status:     statusCompleted,
		StatusCode: record.StatusCode,
		Data:       string(record.Body),
	})
	if err != nil {
		return repositories.StoreError("save", "idempotency_record", record.Key, err)
	}

	if _, err := s.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		s.logger.WithFields(logrus.Fields{
			"table":           s.table,
			"idempotency_key": record.Key,
		}).WithError(err).Error("Failed to save idempotency record")
		return repositories.StoreError("save", "idempotency_record", record.Key, err)
	}
	return nil
}
