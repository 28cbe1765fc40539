package models

import "time"

// Product represents a catalog item that can be reserved.
type Product struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Stock      int       `json:"stock" bson:"stock"`
	ExpiryDate time.Time `json:"expiryDate" bson:"expiryDate"`
}
