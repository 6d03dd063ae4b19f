package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"products-api/internal/models"
	"products-api/internal/repositories"
	"products-api/internal/repositories/memory"
)

func TestRepositoryErrorClassification(t *testing.T) {
	notFound := repositories.NotFoundError("product", "p1")
	assert.True(t, repositories.IsNotFound(notFound))
	assert.False(t, repositories.IsStore(notFound))
	assert.Equal(t, "product with ID p1 not found", notFound.Error())

	wrapped := fmt.Errorf("service: %w", notFound)
	assert.True(t, repositories.IsNotFound(wrapped))

	cause := errors.New("dial tcp: timeout")
	storeErr := repositories.StoreError("scan", "product", "", cause)
	assert.True(t, repositories.IsStore(storeErr))
	assert.False(t, repositories.IsNotFound(storeErr))
	assert.ErrorIs(t, storeErr, cause)
	assert.Contains(t, storeErr.Error(), "dial tcp: timeout")

	withID := repositories.NewRepositoryError("put", "product", "p9", cause)
	assert.Equal(t, "product put operation failed for ID p9: dial tcp: timeout", withID.Error())
}

func TestFaultInjectingRepository(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewProductRepository()
	require.NoError(t, inner.Put(ctx, &models.Product{ID: "p1", Name: "Widget", Price: 1}))

	t.Run("DisabledWhenEmpty", func(t *testing.T) {
		repo := repositories.NewFaultInjectingRepository(inner, "")
		assert.Same(t, inner, repo)
	})

	repo := repositories.NewFaultInjectingRepository(inner, "ForceError")

	t.Run("FailsEveryTime", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := repo.GetByID(ctx, "ForceError")
			require.Error(t, err)
			assert.True(t, repositories.IsStore(err))
			assert.ErrorIs(t, err, repositories.ErrInjectedFault)
		}
	})

	t.Run("PassesThroughOtherIDs", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)

		_, err = repo.GetByID(ctx, "missing")
		assert.True(t, repositories.IsNotFound(err))
	})

	t.Run("DelegatesWrites", func(t *testing.T) {
		id, err := repo.Create(ctx, &models.Product{Name: "Gadget"})
		require.NoError(t, err)
		_, err = inner.GetByID(ctx, id)
		assert.NoError(t, err)
	})
}
