package handlers

import "net/http"

// HealthHandler godoc
// @Summary Liveness and cache state
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	cache := "degraded"
	if cacheStatus != nil && cacheStatus.Connected() {
		cache = "connected"
	}
	respond(w, http.StatusOK, HealthResponse{Status: "ok", Cache: cache})
}
