package repo

import "context"

type Metrics struct {
	TotalProducts     int `json:"total_products"`
	TotalUnitsInStock int `json:"total_units_in_stock"`
	TotalReservations int `json:"total_reservations"`
	LowStockCount     int `json:"low_stock_count"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
