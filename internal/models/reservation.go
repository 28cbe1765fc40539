package models

import "time"

// Reservation records units of a product held for a client. It is never modified after creation.
type Reservation struct {
	ID        string    `json:"reservationId" bson:"_id"`
	ProductID string    `json:"productId" bson:"productId"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
