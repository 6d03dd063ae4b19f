package repositories

import (
	"context"
	"fmt"

	"products-api/internal/models"
)

// FaultInjectingRepository makes lookups of one reserved ID fail deterministically.
// It exists so deployed stacks and tests can exercise the 500 path on demand.
type FaultInjectingRepository struct {
	ProductRepository
	faultID string
}

// NewFaultInjectingRepository wraps inner so that GetByID(faultID) always fails.
// An empty faultID disables injection and returns inner unchanged.
func NewFaultInjectingRepository(inner ProductRepository, faultID string) ProductRepository {
	if faultID == "" {
		return inner
	}
	return &FaultInjectingRepository{
		ProductRepository: inner,
		faultID:           faultID,
	}
}

// GetByID implements ProductRepository.GetByID
func (r *FaultInjectingRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if id == r.faultID {
		return nil, StoreError("get_by_id", "product", id, fmt.Errorf("%w: BOOM", ErrInjectedFault))
	}
	return r.ProductRepository.GetByID(ctx, id)
}
