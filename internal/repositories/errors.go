package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when no record exists for the requested key
	ErrNotFound = errors.New("entity not found")

	// ErrStore is returned for any failure reported by the backing store or its transport
	ErrStore = errors.New("store failure")

	// ErrInvalidID is returned when an empty or malformed ID is provided
	ErrInvalidID = errors.New("invalid ID")

	// ErrInjectedFault is returned by the fault-injecting repository
	ErrInjectedFault = errors.New("injected fault")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// StoreError wraps a backing store failure so callers see a single opaque failure kind
func StoreError(op, entity, id string, cause error) *RepositoryError {
	return NewRepositoryError(op, entity, id, fmt.Errorf("%w: %w", ErrStore, cause))
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// InvalidIDError creates an "invalid ID" repository error
func InvalidIDError(op, entity string) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("%s ID cannot be empty", entity),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStore checks if an error is a store failure
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}
