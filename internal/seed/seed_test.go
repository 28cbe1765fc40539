package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
)

func TestLoad(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	n, err := Load(ctx, products)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = products.DecrementStock(ctx, "p1", 10)
	require.NoError(t, err)

	// loading again resets stock
	_, err = Load(ctx, products)
	require.NoError(t, err)

	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, 50, p.Stock)

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	low, err := products.GetLowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p4", low[0].ID)
}
