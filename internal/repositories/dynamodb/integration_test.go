package dynamodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"products-api/internal/models"
	"products-api/internal/repositories"
)

// DynamoDBLocalSuite runs the repositories against DynamoDB Local in a container
type DynamoDBLocalSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *ddb.Client
	repo      *ProductRepository
	store     *IdempotencyStore
	table     string
}

func TestDynamoDBLocalSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping DynamoDB Local integration suite in short mode")
	}
	suite.Run(t, new(DynamoDBLocalSuite))
}

func (s *DynamoDBLocalSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "amazon/dynamodb-local:latest",
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			ExposedPorts: []string{"8000/tcp"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err, "could not start dynamodb-local container")
	s.container = container

	endpoint, err := container.PortEndpoint(ctx, "8000/tcp", "http")
	s.Require().NoError(err)

	client, err := NewClient(ctx, ClientConfig{Region: "us-east-1", Endpoint: endpoint, MaxConns: 10})
	s.Require().NoError(err)
	s.client = client
}

func (s *DynamoDBLocalSuite) TearDownSuite() {
	if s.container != nil {
		s.NoError(s.container.Terminate(context.Background()))
	}
}

// SetupTest gives each test fresh tables so listings start empty
func (s *DynamoDBLocalSuite) SetupTest() {
	ctx := context.Background()
	s.table = fmt.Sprintf("Products-%d", time.Now().UnixNano())
	idempotencyTable := s.table + "-idempotency"

	created, err := EnsureTable(ctx, s.client, ProductTable(s.table), time.Minute)
	s.Require().NoError(err)
	s.True(created)

	created, err = EnsureTable(ctx, s.client, ProductTable(s.table), time.Minute)
	s.Require().NoError(err)
	s.False(created, "second EnsureTable should find the existing table")

	_, err = EnsureTable(ctx, s.client, IdempotencyTable(idempotencyTable), time.Minute)
	s.Require().NoError(err)

	s.repo = NewProductRepository(s.client, s.table, quietLogger())
	s.store = NewIdempotencyStore(s.client, idempotencyTable, quietLogger())
}

func (s *DynamoDBLocalSuite) TestCreateThenFetch() {
	ctx := context.Background()

	id, err := s.repo.Create(ctx, &models.Product{Name: "Widget", Price: 9.99})
	s.Require().NoError(err)

	got, err := s.repo.GetByID(ctx, id)
	s.Require().NoError(err)
	s.Equal(&models.Product{ID: id, Name: "Widget", Price: 9.99}, got)
}

func (s *DynamoDBLocalSuite) TestPutOverwritesAndDeleteRemoves() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, &models.Product{ID: "fixed", Name: "One", Price: 1}))
	s.Require().NoError(s.repo.Put(ctx, &models.Product{ID: "fixed", Name: "Two", Price: 2}))

	got, err := s.repo.GetByID(ctx, "fixed")
	s.Require().NoError(err)
	s.Equal("Two", got.Name)

	s.Require().NoError(s.repo.Delete(ctx, "fixed"))
	s.Require().NoError(s.repo.Delete(ctx, "fixed"))

	_, err = s.repo.GetByID(ctx, "fixed")
	s.True(repositories.IsNotFound(err))
}

func (s *DynamoDBLocalSuite) TestListIsBounded() {
	ctx := context.Background()

	products, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Empty(products)

	for i := 0; i < 25; i++ {
		_, err := s.repo.Create(ctx, &models.Product{Name: fmt.Sprintf("P%d", i), Price: float64(i)})
		s.Require().NoError(err)
	}

	products, err = s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(products, repositories.ListLimit)
}

func (s *DynamoDBLocalSuite) TestIdempotencyRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, &repositories.IdempotencyRecord{
		Key:        "hash",
		StatusCode: 201,
		Body:       []byte(`{"message":"ok"}`),
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}))

	record, err := s.store.Get(ctx, "hash")
	s.Require().NoError(err)
	s.Equal(201, record.StatusCode)
	s.Equal(`{"message":"ok"}`, string(record.Body))
}
