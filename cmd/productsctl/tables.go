package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"products-api/internal/config"
	"products-api/internal/repositories/dynamodb"
)

func newTablesCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage DynamoDB tables",
	}

	var maxWait time.Duration
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the product and idempotency tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if cfg.Backend != config.BackendDynamoDB {
				return fmt.Errorf("tables create requires STORE_BACKEND=%s", config.BackendDynamoDB)
			}

			client, err := dynamodb.NewClient(cmd.Context(), dynamodb.ClientConfig{
				Region:   cfg.DynamoDB.Region,
				Endpoint: cfg.DynamoDB.Endpoint,
				MaxConns: cfg.DynamoDB.MaxConns,
			})
			if err != nil {
				return err
			}

			specs := []dynamodb.TableSpec{dynamodb.ProductTable(cfg.DynamoDB.ProductTable)}
			if cfg.DynamoDB.IdempotencyTable != "" {
				specs = append(specs, dynamodb.IdempotencyTable(cfg.DynamoDB.IdempotencyTable))
			}
			return createTables(cmd.Context(), client, specs, maxWait, logger)
		},
	}
	create.Flags().DurationVar(&maxWait, "wait", 2*time.Minute, "How long to wait for each table to become active")

	cmd.AddCommand(create)
	return cmd
}

// createTables provisions each table, retrying transient failures until maxWait elapses
func createTables(ctx context.Context, client dynamodb.TableAPI, specs []dynamodb.TableSpec, maxWait time.Duration, logger *logrus.Logger) error {
	for _, spec := range specs {
		operation := func() (bool, error) {
			created, err := dynamodb.EnsureTable(ctx, client, spec, maxWait)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false, backoff.Permanent(err)
			}
			if err != nil {
				logger.WithError(err).WithField("table", spec.Name).Warn("Table creation failed, retrying")
			}
			return created, err
		}

		created, err := backoff.Retry(ctx, operation,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(maxWait),
		)
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", spec.Name, err)
		}

		logger.WithFields(logrus.Fields{
			"table":   spec.Name,
			"created": created,
		}).Info("Table ready")
	}
	return nil
}
