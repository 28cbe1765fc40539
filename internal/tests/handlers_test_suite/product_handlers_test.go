package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	handler "github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
)

func TestGetExpiringProductsHandler(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "Default horizon of seven days", path: "/products/expiring", expected: []string{"p1", "p3", "p4"}},
		{name: "Five days", path: "/products/expiring?days=5", expected: []string{"p1", "p3"}},
		{name: "Ten days", path: "/products/expiring?days=10", expected: []string{"p1", "p2", "p3", "p4"}},
		{name: "Zero days", path: "/products/expiring?days=0", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}

			var resp handler.ExpiringProductsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if !reflect.DeepEqual(resp.ProductIDs, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, resp.ProductIDs)
			}
		})
	}
}

func TestGetExpiringProductsHandler_EmptyListIsArray(t *testing.T) {
	r := newRouter()

	w := get(r, "/products/expiring?days=0")
	if got := w.Body.String(); got != `{"productIds":[]}` {
		t.Errorf("expected an empty array, got %s", got)
	}
}

func TestGetExpiringProductsHandler_InvalidDays(t *testing.T) {
	r := newRouter()

	for _, days := range []string{"-1", "abc", "2.5"} {
		w := get(r, "/products/expiring?days="+days)
		if w.Code != http.StatusBadRequest {
			t.Errorf("days=%s: expected 400 Bad Request, got %d", days, w.Code)
		}
	}
}
