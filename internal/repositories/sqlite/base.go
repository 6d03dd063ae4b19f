// Package sqlite provides the SQLite-backed repository used by the local
// "sqlite" store backend.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"products-api/internal/repositories"
)

// baseRepository provides query helpers shared by SQLite repositories
type baseRepository struct {
	db     *sql.DB
	table  string
	logger *logrus.Logger
}

func newBaseRepository(db *sql.DB, table string, logger *logrus.Logger) baseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return baseRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// logQuery logs a query with its execution time
func (r *baseRepository) logQuery(operation, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *baseRepository) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.StoreError(operation, "product", "", err)
	}
	return rows, nil
}

// executeQueryRow executes a single-row query and logs it
func (r *baseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), row.Err())
	return row
}

// executeExec executes a non-query statement and logs the result
func (r *baseRepository) executeExec(ctx context.Context, operation, id, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.StoreError(operation, "product", id, err)
	}
	return result, nil
}
