package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

const queryTimeout = 3 * time.Second

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, stock, expiry_date FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.queryProducts(ctx, query)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `SELECT id, name, stock, expiry_date FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Stock, &p.ExpiryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Save(ctx context.Context, p models.Product) error {
	query := `
		INSERT INTO products (id, name, stock, expiry_date) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, stock = EXCLUDED.stock, expiry_date = EXCLUDED.expiry_date
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Stock, p.ExpiryDate.UTC())
	return err
}

func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
		RETURNING id, name, stock, expiry_date
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id, quantity).Scan(&p.ID, &p.Name, &p.Stock, &p.ExpiryDate)
	if errors.Is(err, sql.ErrNoRows) {
		// The condition did not match: either the row is gone or there is not enough stock.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return models.Product{}, err
		}
		if !exists {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, ErrInsufficientStock
	}
	return p, err
}

func (r *PostgresProductRepository) GetLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	query := `SELECT id, name, stock, expiry_date FROM products WHERE stock <= $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.queryProducts(ctx, query, threshold)
}

func (r *PostgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.ExpiryDate); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
