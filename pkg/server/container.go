// Package server wires the application's dependencies for both the Lambda
// entrypoint and the local HTTP server.
package server

import (
	"context"
	"fmt"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"products-api/internal/config"
	"products-api/internal/database"
	"products-api/internal/handlers"
	"products-api/internal/middleware"
	"products-api/internal/repositories"
	"products-api/internal/repositories/dynamodb"
	"products-api/internal/repositories/memory"
	"products-api/internal/repositories/sqlite"
	"products-api/internal/services"
	"products-api/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *logrus.Logger
	ProductRepo      repositories.ProductRepository
	IdempotencyStore repositories.IdempotencyStore
	ProductService   services.ProductService
	ProductHandler   *handlers.ProductHandler

	// Internal dependencies
	dynamo *ddb.Client
	db     *database.ConnectionManager
}

// NewContainer creates the dependency container for the configured backend
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initRepositories(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if cfg.FaultInjectionID != "" {
		logger.WithField("product_id", cfg.FaultInjectionID).Warn("Fault injection enabled")
		c.ProductRepo = repositories.NewFaultInjectingRepository(c.ProductRepo, cfg.FaultInjectionID)
	}

	var serviceOpts []services.ServiceOption
	if cfg.StrictValidation {
		serviceOpts = append(serviceOpts, services.WithStrictValidation())
	}
	c.ProductService = services.NewProductService(c.ProductRepo, logger, serviceOpts...)
	c.ProductHandler = handlers.NewProductHandler(c.ProductService, logger, c.middleware()...)

	fields := logrus.Fields{
		"backend":           cfg.Backend,
		"deployment_mode":   config.GetDeploymentMode(),
		"idempotency":       c.IdempotencyStore != nil,
		"rate_limit":        cfg.RateLimit.RequestsPerSecond,
		"strict_validation": cfg.StrictValidation,
	}
	if sc := config.GetServerlessConfig(); sc.IsLambda {
		fields["function_name"] = sc.FunctionName
		fields["stage"] = sc.Stage
	}
	logger.WithFields(fields).Info("Container initialized")
	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.ClientConfig{
			Region:   cfg.DynamoDB.Region,
			Endpoint: cfg.DynamoDB.Endpoint,
			MaxConns: cfg.DynamoDB.MaxConns,
		})
		if err != nil {
			return fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		c.dynamo = client
		c.ProductRepo = dynamodb.NewProductRepository(client, cfg.DynamoDB.ProductTable, c.Logger)

		if cfg.Idempotency.Enabled && cfg.DynamoDB.IdempotencyTable != "" {
			c.IdempotencyStore = dynamodb.NewIdempotencyStore(client, cfg.DynamoDB.IdempotencyTable, c.Logger)
		}

	case config.BackendSQLite:
		cm := database.NewConnectionManager(&database.ConnectionConfig{
			DatabasePath: cfg.SQLite.Path,
			MaxOpenConns: 1,
			AutoMigrate:  true,
			Logger:       c.Logger,
		})
		if err := cm.Connect(); err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		c.db = cm
		c.ProductRepo = sqlite.NewProductRepository(cm.GetDB(), c.Logger)

	case config.BackendMemory:
		c.ProductRepo = memory.NewProductRepository()

	default:
		return fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if cfg.Idempotency.Enabled && c.IdempotencyStore == nil {
		c.IdempotencyStore = memory.NewIdempotencyStore()
	}
	return nil
}

// middleware returns the decorators around the dispatcher, outermost first
func (c *Container) middleware() []lambda.Middleware {
	chain := []lambda.Middleware{
		middleware.Recover(c.Logger),
		middleware.AssignRequestID(),
		middleware.LogRequests(c.Logger),
		middleware.RateLimit(c.Config.RateLimit.RequestsPerSecond, c.Config.RateLimit.Burst, c.Logger),
	}
	if c.IdempotencyStore != nil {
		chain = append(chain, middleware.Idempotency(c.IdempotencyStore, c.Config.Idempotency.TTL, c.Logger))
	}
	return chain
}

// DynamoDB returns the DynamoDB client, or nil for other backends
func (c *Container) DynamoDB() *ddb.Client {
	return c.dynamo
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}
	return nil
}
