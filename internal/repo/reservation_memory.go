package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

type InMemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]models.Reservation
}

func NewInMemoryReservationRepository() *InMemoryReservationRepository {
	return &InMemoryReservationRepository{
		reservations: map[string]models.Reservation{},
	}
}

func (r *InMemoryReservationRepository) Create(_ context.Context, reservation models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[reservation.ID]; ok {
		return fmt.Errorf("reservation %s already exists", reservation.ID)
	}
	r.reservations[reservation.ID] = reservation
	return nil
}

func (r *InMemoryReservationRepository) GetByID(_ context.Context, id string) (models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return models.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

func (r *InMemoryReservationRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reservations), nil
}

func (r *InMemoryReservationRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations = map[string]models.Reservation{}
}
