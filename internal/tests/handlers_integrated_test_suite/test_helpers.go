package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-reservation/internal/db"
	"github.com/rogerio-castellano/inventory-reservation/internal/events"
	handler "github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-reservation/internal/redissvc"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
	"github.com/rogerio-castellano/inventory-reservation/internal/reservation"
	"github.com/rogerio-castellano/inventory-reservation/internal/seed"
)

var (
	database    *sql.DB
	productRepo *repo.PostgresProductRepository
	redisServer *miniredis.Miniredis
)

type discardSink struct{}

func (discardSink) Write(context.Context, events.Message) error { return nil }
func (discardSink) Close() error                                { return nil }

func setupTestRepos(dbURL string) error {
	ctx := context.Background()

	var err error
	database, err = db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		return err
	}

	redisServer, err = miniredis.Run()
	if err != nil {
		return fmt.Errorf("could not start miniredis: %w", err)
	}
	cache := redissvc.NewRedisService(redis.NewClient(&redis.Options{Addr: redisServer.Addr()}), nil)
	cache.Connect(ctx)

	publisher := events.NewPublisher(discardSink{}, 256, nil, nil)
	go publisher.Run(context.Background())

	productRepo = repo.NewPostgresProductRepository(database)
	reservationRepo := repo.NewPostgresReservationRepository(database)

	svc := reservation.NewService(productRepo, reservationRepo, cache, publisher,
		reservation.WithClock(func() time.Time { return time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC) }),
	)
	handler.SetReservationService(svc)
	handler.SetCacheStatus(cache)
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database, 0))

	return nil
}

func teardown() {
	if database != nil {
		database.Close()
	}
	if redisServer != nil {
		redisServer.Close()
	}
}

func resetCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := database.ExecContext(ctx, "TRUNCATE TABLE products, reservations"); err != nil {
		fmt.Println(fmt.Errorf("failed to truncate tables: %w", err))
	}
	redisServer.FlushAll()
	if _, err := seed.Load(ctx, productRepo); err != nil {
		fmt.Println(fmt.Errorf("failed to seed products: %w", err))
	}
}

func reserve(r http.Handler, req handler.ReserveRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
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
