package repo

import "context"

type InMemoryMetricsRepository struct {
	productRepo       ProductRepository
	reservationRepo   ReservationRepository
	lowStockThreshold int
}

func NewInMemoryMetricsRepository(lowStockThreshold int) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{lowStockThreshold: lowStockThreshold}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	reservationRepo ReservationRepository,
) {
	i.productRepo = productRepo
	i.reservationRepo = reservationRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	for _, product := range products {
		m.TotalUnitsInStock += product.Stock
		if product.Stock <= i.lowStockThreshold {
			m.LowStockCount++
		}
	}

	m.TotalReservations, err = i.reservationRepo.Count(ctx)
	if err != nil {
		return m, err
	}

	return m, nil
}
