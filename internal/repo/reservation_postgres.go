package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

type PostgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

func (r *PostgresReservationRepository) Create(ctx context.Context, res models.Reservation) error {
	query := `INSERT INTO reservations (id, product_id, quantity, created_at) VALUES ($1, $2, $3, $4)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, res.ID, res.ProductID, res.Quantity, res.CreatedAt.UTC())
	return err
}

func (r *PostgresReservationRepository) GetByID(ctx context.Context, id string) (models.Reservation, error) {
	query := `SELECT id, product_id, quantity, created_at FROM reservations WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.ProductID, &res.Quantity, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

func (r *PostgresReservationRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&n)
	return n, err
}
