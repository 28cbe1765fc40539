package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoMetricsRepository struct {
	db                *mongo.Database
	lowStockThreshold int
}

func NewMongoMetricsRepository(db *mongo.Database, lowStockThreshold int) *MongoMetricsRepository {
	return &MongoMetricsRepository{db: db, lowStockThreshold: lowStockThreshold}
}

func (r *MongoMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics
	products := r.db.Collection(productsCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"units": bson.M{"$sum": "$stock"},
			"low": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$lte": bson.A{"$stock", r.lowStockThreshold}}, 1, 0},
			}},
		}}},
	}
	cur, err := products.Aggregate(ctx, pipeline)
	if err != nil {
		return m, fmt.Errorf("product totals: %w", err)
	}
	defer cur.Close(ctx)

	var totals []struct {
		Count int `bson:"count"`
		Units int `bson:"units"`
		Low   int `bson:"low"`
	}
	if err := cur.All(ctx, &totals); err != nil {
		return m, fmt.Errorf("product totals: %w", err)
	}
	if len(totals) > 0 {
		m.TotalProducts = totals[0].Count
		m.TotalUnitsInStock = totals[0].Units
		m.LowStockCount = totals[0].Low
	}

	n, err := r.db.Collection(reservationsCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return m, fmt.Errorf("reservation totals: %w", err)
	}
	m.TotalReservations = int(n)

	return m, nil
}
