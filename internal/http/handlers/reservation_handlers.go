package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-reservation/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func toReservationResponse(r models.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		CreatedAt:     r.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ReserveHandler godoc
// @Summary Reserve units of a product
// @Description Atomically decrements stock and records a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body ReserveRequest true "Product and quantity to reserve"
// @Success 201 {object} ReservationResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 409 {object} ErrorResponse "Insufficient stock"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /reserve [post]
func ReserveHandler(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := readJSON(w, r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	validationErrors := validateReserve(req)
	if len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	res, err := reservationService.CreateReservation(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	respond(w, http.StatusCreated, toReservationResponse(res))
}

// GetReservationHandler godoc
// @Summary Get a reservation by ID
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /reservations/{id} [get]
func GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := reservationService.GetReservation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, toReservationResponse(res))
}
