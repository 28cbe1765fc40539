package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
	repo "github.com/rogerio-castellano/inventory-reservation/internal/repo"
)

// ReservationService is the engine behind the reservation and product endpoints.
type ReservationService interface {
	CreateReservation(ctx context.Context, productID string, quantity int) (models.Reservation, error)
	GetReservation(ctx context.Context, id string) (models.Reservation, error)
	GetExpiringProducts(ctx context.Context, days int) ([]string, error)
}

type CacheStatus interface {
	Connected() bool
}

var (
	reservationService ReservationService
	metricsRepo        repo.MetricsRepository
	cacheStatus        CacheStatus
	logger             = zap.NewNop()
)

func SetReservationService(s ReservationService) {
	reservationService = s
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetCacheStatus(c CacheStatus) {
	cacheStatus = c
}

func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}
