package handlers

import (
	"net/http"
	"strconv"
)

const defaultExpiryDays = 7

// GetExpiringProductsHandler godoc
// @Summary List products expiring soon
// @Description Products whose expiry date falls between now and now + days, in catalog order
// @Tags products
// @Produce json
// @Param days query int false "Horizon in days (default 7)"
// @Success 200 {object} ExpiringProductsResponse
// @Failure 400 {object} ErrorResponse "Invalid days"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /products/expiring [get]
func GetExpiringProductsHandler(w http.ResponseWriter, r *http.Request) {
	days := defaultExpiryDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respond(w, http.StatusBadRequest, ErrorResponse{Error: "days must be a non-negative integer"})
			return
		}
		days = n
	}

	ids, err := reservationService.GetExpiringProducts(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, ExpiringProductsResponse{ProductIDs: ids})
}
