package repo

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-reservation/internal/db"
	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

// openTestDB connects to DATABASE_URL and resets both tables. Tests are skipped without it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx, database))

	truncate := func() {
		_, err := database.ExecContext(ctx, "TRUNCATE TABLE products, reservations")
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		database.Close()
	})
	return database
}

func TestPostgresProductRepository(t *testing.T) {
	database := openTestDB(t)
	r := NewPostgresProductRepository(database)
	ctx := context.Background()

	expiry := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Save(ctx, models.Product{ID: "p1", Name: "Milk", Stock: 3, ExpiryDate: expiry}))
	require.NoError(t, r.Save(ctx, models.Product{ID: "p2", Name: "Yogurt", Stock: 0, ExpiryDate: expiry}))

	p, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Milk", p.Name)
	assert.True(t, expiry.Equal(p.ExpiryDate))

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	p, err = r.DecrementStock(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	_, err = r.DecrementStock(ctx, "p1", 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = r.DecrementStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	low, err := r.GetLowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p2", low[0].ID)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostgresProductRepository_NoOversell(t *testing.T) {
	database := openTestDB(t)
	r := NewPostgresProductRepository(database)
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, models.Product{ID: "p1", Name: "Bread", Stock: 10, ExpiryDate: time.Now()}))

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.DecrementStock(ctx, "p1", 1); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	p, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, 0, p.Stock)
}

func TestPostgresReservationAndMetricsRepository(t *testing.T) {
	database := openTestDB(t)
	products := NewPostgresProductRepository(database)
	reservations := NewPostgresReservationRepository(database)
	metrics := NewPostgresMetricsRepository(database, 0)
	ctx := context.Background()

	require.NoError(t, products.Save(ctx, models.Product{ID: "p1", Name: "Milk", Stock: 5, ExpiryDate: time.Now()}))
	require.NoError(t, products.Save(ctx, models.Product{ID: "p2", Name: "Yogurt", Stock: 0, ExpiryDate: time.Now()}))

	created := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)
	require.NoError(t, reservations.Create(ctx, models.Reservation{ID: "r1", ProductID: "p1", Quantity: 2, CreatedAt: created}))

	res, err := reservations.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Quantity)
	assert.True(t, created.Equal(res.CreatedAt))

	_, err = reservations.GetByID(ctx, "r2")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	m, err := metrics.GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Metrics{TotalProducts: 2, TotalUnitsInStock: 5, TotalReservations: 1, LowStockCount: 1}, m)
}
