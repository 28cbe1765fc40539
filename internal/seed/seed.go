package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Products is the demo catalog.
func Products() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Milk", Stock: 50, ExpiryDate: day(2025, time.October, 20)},
		{ID: "p2", Name: "Organic Eggs", Stock: 100, ExpiryDate: day(2025, time.October, 25)},
		{ID: "p3", Name: "Bread", Stock: 30, ExpiryDate: day(2025, time.October, 18)},
		{ID: "p4", Name: "Yogurt", Stock: 0, ExpiryDate: day(2025, time.October, 22)},
	}
}

// Load upserts the demo catalog, resetting stock for products that already exist.
func Load(ctx context.Context, products repo.ProductRepository) (int, error) {
	catalog := Products()
	for _, p := range catalog {
		if err := products.Save(ctx, p); err != nil {
			return 0, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return len(catalog), nil
}
