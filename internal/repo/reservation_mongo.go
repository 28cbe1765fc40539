package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

type MongoReservationRepository struct {
	coll *mongo.Collection
}

func NewMongoReservationRepository(db *mongo.Database) *MongoReservationRepository {
	return &MongoReservationRepository{coll: db.Collection(reservationsCollection)}
}

func (r *MongoReservationRepository) Create(ctx context.Context, res models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res.CreatedAt = res.CreatedAt.UTC()
	_, err := r.coll.InsertOne(ctx, res)
	return err
}

func (r *MongoReservationRepository) GetByID(ctx context.Context, id string) (models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

func (r *MongoReservationRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}
