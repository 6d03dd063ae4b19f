package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableSpec describes a table to provision
type TableSpec struct {
	Name         string
	KeyAttribute string
	TTLAttribute string // empty disables TTL
}

// ProductTable describes the products table
func ProductTable(name string) TableSpec {
	return TableSpec{Name: name, KeyAttribute: PartitionKey}
}

// IdempotencyTable describes the idempotency table
func IdempotencyTable(name string) TableSpec {
	return TableSpec{Name: name, KeyAttribute: IdempotencyKey, TTLAttribute: ExpirationAttribute}
}

// EnsureTable creates the table if it does not exist, waits until it is active and
// enables TTL when requested. It reports whether the table was created.
func EnsureTable(ctx context.Context, client TableAPI, spec TableSpec, maxWait time.Duration) (bool, error) {
	created := true
	_, err := client.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(spec.Name),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(spec.KeyAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(spec.KeyAttribute), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return false, fmt.Errorf("failed to create table %s: %w", spec.Name, err)
		}
		created = false
	}

	waiter := ddb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &ddb.DescribeTableInput{TableName: aws.String(spec.Name)}, maxWait); err != nil {
		return created, fmt.Errorf("table %s did not become active: %w", spec.Name, err)
	}

	if spec.TTLAttribute != "" && created {
		if _, err := client.UpdateTimeToLive(ctx, &ddb.UpdateTimeToLiveInput{
			TableName: aws.String(spec.Name),
			TimeToLiveSpecification: &types.TimeToLiveSpecification{
				AttributeName: aws.String(spec.TTLAttribute),
				Enabled:       aws.Bool(true),
			},
		}); err != nil {
			return created, fmt.Errorf("failed to enable TTL on %s: %w", spec.Name, err)
		}
	}

	return created, nil
}
