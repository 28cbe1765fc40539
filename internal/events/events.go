package events

import (
	"encoding/json"
	"time"
)

const (
	TopicReservations = "reservations"
	TopicLowStock     = "low-stock-detected"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ReservationEvent is emitted once per successful reservation.
type ReservationEvent struct {
	ReservationID string
	ProductID     string
	Quantity      int
	Timestamp     time.Time
}

type LowStockEvent struct {
	ProductID string
	Stock     int
	Timestamp time.Time
}

// Message is a serialized event ready for a sink.
type Message struct {
	Topic string
	Key   string
	Value []byte
}

type reservationRecord struct {
	Topic         string `json:"topic"`
	ReservationID string `json:"reservationId"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	Timestamp     string `json:"timestamp"`
}

type lowStockRecord struct {
	Topic     string `json:"topic"`
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
	Timestamp string `json:"timestamp"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func (e ReservationEvent) message() (Message, error) {
	value, err := json.Marshal(reservationRecord{
		Topic:         TopicReservations,
		ReservationID: e.ReservationID,
		ProductID:     e.ProductID,
		Quantity:      e.Quantity,
		Timestamp:     formatTimestamp(e.Timestamp),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: TopicReservations, Key: e.ProductID, Value: value}, nil
}

func (e LowStockEvent) message() (Message, error) {
	value, err := json.Marshal(lowStockRecord{
		Topic:     TopicLowStock,
		ProductID: e.ProductID,
		Stock:     e.Stock,
		Timestamp: formatTimestamp(e.Timestamp),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: TopicLowStock, Key: e.ProductID, Value: value}, nil
}
