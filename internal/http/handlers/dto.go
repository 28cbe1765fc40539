package handlers

type ReserveRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ReservationResponse struct {
	ReservationID string `json:"reservationId"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	CreatedAt     string `json:"createdAt"`
}

type ExpiringProductsResponse struct {
	ProductIDs []string `json:"productIds"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
