package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	handler "github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-reservation/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-reservation/internal/http/router"
)

func TestReserveHandler_Valid(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	w := reserve(r, handler.ReserveRequest{ProductID: "p1", Quantity: 5})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ReservationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if _, err := uuid.Parse(resp.ReservationID); err != nil {
		t.Errorf("expected a uuid reservation id, got %q", resp.ReservationID)
	}
	if resp.ProductID != "p1" {
		t.Errorf("expected productId p1, got %v", resp.ProductID)
	}
	if resp.Quantity != 5 {
		t.Errorf("expected quantity 5, got %v", resp.Quantity)
	}
	if resp.CreatedAt != "2025-10-16T00:00:00.000Z" {
		t.Errorf("unexpected createdAt %v", resp.CreatedAt)
	}
	if got := stockOf("p1"); got != 45 {
		t.Errorf("expected stock 45, got %d", got)
	}
	if redisServer.Exists("product:p1") {
		t.Errorf("expected product:p1 to be evicted from the cache")
	}

	// earlier tests may still have events in flight; wait for ours
	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-sink.messages:
			var record map[string]any
			if err := json.Unmarshal(msg.Value, &record); err != nil {
				t.Fatalf("error decoding event: %v", err)
			}
			if record["reservationId"] != resp.ReservationID {
				continue
			}
			if record["topic"] != "reservations" || record["productId"] != "p1" {
				t.Errorf("unexpected event %s", msg.Value)
			}
			return
		case <-timeout:
			t.Fatal("expected a reservation event")
		}
	}
}

func TestReserveHandler_Invalid(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	tests := []struct {
		name           string
		payload        handler.ReserveRequest
		expectedErrors []string
	}{
		{
			name:           "Missing product and quantity",
			payload:        handler.ReserveRequest{},
			expectedErrors: []string{"productId", "quantity"},
		},
		{
			name:           "Blank product id",
			payload:        handler.ReserveRequest{ProductID: "  ", Quantity: 1},
			expectedErrors: []string{"productId"},
		},
		{
			name:           "Zero quantity",
			payload:        handler.ReserveRequest{ProductID: "p1", Quantity: 0},
			expectedErrors: []string{"quantity"},
		},
		{
			name:           "Negative quantity",
			payload:        handler.ReserveRequest{ProductID: "p1", Quantity: -3},
			expectedErrors: []string{"quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := reserve(r, tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}

			var resp []handler.ValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}

	if got := stockOf("p1"); got != 50 {
		t.Errorf("stock must not change on invalid input, got %d", got)
	}
}

func TestReserveHandler_MalformedJSON(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	bodies := map[string]string{
		"missing comma":       `{"productId": "p1" "quantity": 1}`,
		"fractional quantity": `{"productId": "p1", "quantity": 1.5}`,
		"string quantity":     `{"productId": "p1", "quantity": "two"}`,
		"numeric product id":  `{"productId": 1, "quantity": 1}`,
		"two documents":       `{"productId": "p1", "quantity": 1}{}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := reserveRaw(r, []byte(body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 Bad Request, got %d", w.Code)
			}
		})
	}
}

func TestReserveHandler_ProductNotFound(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	w := reserve(r, handler.ReserveRequest{ProductID: "p99", Quantity: 1})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestReserveHandler_InsufficientStock(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	w := reserve(r, handler.ReserveRequest{ProductID: "p4", Quantity: 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	w = reserve(r, handler.ReserveRequest{ProductID: "p3", Quantity: 31})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}
	if got := stockOf("p3"); got != 30 {
		t.Errorf("expected stock 30, got %d", got)
	}
}

func TestReserveHandler_DrainsStockExactly(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	for i := 0; i < 3; i++ {
		w := reserve(r, handler.ReserveRequest{ProductID: "p3", Quantity: 10})
		if w.Code != http.StatusCreated {
			t.Fatalf("reservation %d: expected 201, got %d", i+1, w.Code)
		}
	}

	w := reserve(r, handler.ReserveRequest{ProductID: "p3", Quantity: 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 once stock is gone, got %d", w.Code)
	}
	if got := stockOf("p3"); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestGetReservationHandler(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := newRouter()

	w := reserve(r, handler.ReserveRequest{ProductID: "p2", Quantity: 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}
	var created handler.ReservationResponse
	json.NewDecoder(w.Body).Decode(&created)

	w = get(r, "/reservations/"+created.ReservationID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var got handler.ReservationResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if got != created {
		t.Errorf("expected %+v, got %+v", created, got)
	}
}

func TestGetReservationHandler_NotFound(t *testing.T) {
	r := newRouter()

	w := get(r, "/reservations/does-not-exist")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestReserveHandler_RateLimited(t *testing.T) {
	t.Cleanup(resetCatalog)
	r := router.NewRouter(router.Options{RateLimiter: rl.New(1, 2)})

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := reserve(r, handler.ReserveRequest{ProductID: "p2", Quantity: 1})
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated {
		t.Fatalf("expected the burst to be accepted, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the burst, got %v", codes)
	}

	// reads are not limited
	w := get(r, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on /health, got %d", w.Code)
	}

}
