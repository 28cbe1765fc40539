package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrReservationNotFound = errors.New("reservation not found")
)

// ProductRepository defines the interface for catalog data operations.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	// Save inserts the product or replaces every field of an existing one.
	Save(ctx context.Context, product models.Product) error
	// DecrementStock subtracts quantity in a single conditional step. It fails with
	// ErrInsufficientStock, leaving the product untouched, when stock < quantity.
	DecrementStock(ctx context.Context, id string, quantity int) (models.Product, error)
	GetLowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

// ReservationRepository stores reservations. Reservations are append-only.
type ReservationRepository interface {
	Create(ctx context.Context, reservation models.Reservation) error
	GetByID(ctx context.Context, id string) (models.Reservation, error)
	Count(ctx context.Context) (int, error)
}
