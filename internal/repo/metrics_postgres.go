package repo

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresMetricsRepository struct {
	db                *sql.DB
	lowStockThreshold int
}

func NewPostgresMetricsRepository(db *sql.DB, lowStockThreshold int) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db, lowStockThreshold: lowStockThreshold}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(stock), 0), COUNT(*) FILTER (WHERE stock <= $1)
		FROM products
	`, r.lowStockThreshold).Scan(&m.TotalProducts, &m.TotalUnitsInStock, &m.LowStockCount)
	if err != nil {
		return m, fmt.Errorf("product totals: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&m.TotalReservations); err != nil {
		return m, fmt.Errorf("reservation totals: %w", err)
	}

	return m, nil
}
