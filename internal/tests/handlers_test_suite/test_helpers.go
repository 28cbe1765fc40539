package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-reservation/internal/events"
	handler "github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-reservation/internal/http/router"
	"github.com/rogerio-castellano/inventory-reservation/internal/metrics"
	"github.com/rogerio-castellano/inventory-reservation/internal/redissvc"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
	"github.com/rogerio-castellano/inventory-reservation/internal/reservation"
	"github.com/rogerio-castellano/inventory-reservation/internal/seed"
)

var (
	productRepo     *repo.InMemoryProductRepository
	reservationRepo *repo.InMemoryReservationRepository
	redisServer     *miniredis.Miniredis
	cache           *redissvc.RedisService
	collector       *metrics.Collector
	publisher       *events.Publisher
	sink            *memorySink

	now = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
)

// memorySink collects what the publisher delivers.
type memorySink struct {
	messages chan events.Message
}

func (s *memorySink) Write(_ context.Context, msg events.Message) error {
	s.messages <- msg
	return nil
}

func (s *memorySink) Close() error { return nil }

func init() {
	var err error
	redisServer, err = miniredis.Run()
	if err != nil {
		panic(fmt.Sprintf("error starting miniredis: %v", err))
	}
	setupTestRepos()
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	reservationRepo = repo.NewInMemoryReservationRepository()

	cache = redissvc.NewRedisService(redis.NewClient(&redis.Options{Addr: redisServer.Addr()}), nil)
	cache.Connect(context.Background())

	collector = metrics.New()
	sink = &memorySink{messages: make(chan events.Message, 64)}
	publisher = events.NewPublisher(sink, 64, nil, collector)
	go publisher.Run(context.Background())

	svc := reservation.NewService(productRepo, reservationRepo, cache, publisher,
		reservation.WithClock(func() time.Time { return now }),
		reservation.WithMetrics(collector),
	)
	handler.SetReservationService(svc)
	handler.SetCacheStatus(cache)

	metricsRepo := repo.NewInMemoryMetricsRepository(0)
	metricsRepo.SetRepositories(productRepo, reservationRepo)
	handler.SetMetricsRepo(metricsRepo)

	resetCatalog()
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{Metrics: collector})
}

// resetCatalog restores the demo products and forgets reservations, cached entries and events.
func resetCatalog() {
	productRepo.Clear()
	reservationRepo.Clear()
	redisServer.FlushAll()
	if _, err := seed.Load(context.Background(), productRepo); err != nil {
		panic(err)
	}
	for {
		select {
		case <-sink.messages:
		default:
			return
		}
	}
}

func reserve(r http.Handler, req handler.ReserveRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	return reserveRaw(r, body)
}

func reserveRaw(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func stockOf(id string) int {
	p, err := productRepo.GetByID(context.Background(), id)
	if err != nil {
		return -1
	}
	return p.Stock
}
