package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/inventory-reservation/internal/config"
	"github.com/rogerio-castellano/inventory-reservation/internal/db"
	"github.com/rogerio-castellano/inventory-reservation/internal/events"
	"github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-reservation/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-reservation/internal/http/router"
	"github.com/rogerio-castellano/inventory-reservation/internal/jobs"
	"github.com/rogerio-castellano/inventory-reservation/internal/logger"
	"github.com/rogerio-castellano/inventory-reservation/internal/metrics"
	"github.com/rogerio-castellano/inventory-reservation/internal/observability"
	"github.com/rogerio-castellano/inventory-reservation/internal/redissvc"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
	"github.com/rogerio-castellano/inventory-reservation/internal/reservation"
	"github.com/rogerio-castellano/inventory-reservation/internal/seed"
)

const (
	shutdownTimeout      = 10 * time.Second
	cacheMonitorInterval = 10 * time.Second
)

type stores struct {
	products     repo.ProductRepository
	reservations repo.ReservationRepository
	metrics      repo.MetricsRepository
	close        func()
}

// @title Inventory Reservation API
// @version 1.0
// @description Reserve inventory units against a product catalog without overselling.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	lg := logger.New(cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			lg.Error("failed to shut down tracing", zap.Error(err))
		}
	}()

	collector := metrics.New()

	st, err := openStores(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer st.close()

	cache := redissvc.NewRedisService(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	}), lg.Named("cache"))
	cache.Connect(ctx)
	defer cache.Close()

	sink, err := newSink(cfg.Events, tp, lg)
	if err != nil {
		return err
	}
	publisher := events.NewPublisher(sink, cfg.Events.QueueSize, lg.Named("events"), collector)
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Error("failed to close event sink", zap.Error(err))
		}
	}()

	svc := reservation.NewService(st.products, st.reservations, cache, publisher,
		reservation.WithCacheTTL(cfg.Redis.CacheTTL),
		reservation.WithLowStockThreshold(cfg.LowStock.Threshold),
		reservation.WithLogger(lg.Named("reservation")),
		reservation.WithMetrics(collector),
		reservation.WithTracerProvider(tp),
	)

	lowStock, err := jobs.NewLowStockJob(svc, cfg.LowStock.Schedule, lg.Named("jobs"))
	if err != nil {
		return err
	}

	handlers.SetReservationService(svc)
	handlers.SetMetricsRepo(st.metrics)
	handlers.SetCacheStatus(cache)
	handlers.SetLogger(lg.Named("http"))

	limiter := rl.New(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(router.Options{
			Logger:      lg.Named("http"),
			Metrics:     collector,
			RateLimiter: limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The publisher outlives the HTTP server so events from in-flight requests are delivered.
	pubCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("server running", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		lg.Info("shutting down")
		defer stopPublisher()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error { return publisher.Run(pubCtx) })
	g.Go(func() error { return cache.Monitor(gctx, cacheMonitorInterval) })
	g.Go(func() error { return lowStock.Run(gctx) })
	g.Go(func() error { return limiter.StartVisitorCleanupLoop(gctx) })

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, database); err != nil {
			_ = database.Close()
			return nil, err
		}
		lg.Info("using postgres store")
		return postgresStores(database, cfg.LowStock.Threshold), nil

	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		lg.Info("using mongodb store", zap.String("database", cfg.Store.MongoDatabase))
		return mongoStores(client, database, cfg.LowStock.Threshold), nil

	default:
		lg.Warn("using in-memory store with the demo catalog, data is lost on restart")
		products := repo.NewInMemoryProductRepository()
		reservations := repo.NewInMemoryReservationRepository()
		m := repo.NewInMemoryMetricsRepository(cfg.LowStock.Threshold)
		m.SetRepositories(products, reservations)
		if _, err := seed.Load(ctx, products); err != nil {
			return nil, err
		}
		return &stores{products: products, reservations: reservations, metrics: m, close: func() {}}, nil
	}
}

func postgresStores(database *sql.DB, threshold int) *stores {
	return &stores{
		products:     repo.NewPostgresProductRepository(database),
		reservations: repo.NewPostgresReservationRepository(database),
		metrics:      repo.NewPostgresMetricsRepository(database, threshold),
		close:        func() { _ = database.Close() },
	}
}

func mongoStores(client *mongo.Client, database *mongo.Database, threshold int) *stores {
	return &stores{
		products:     repo.NewMongoProductRepository(database),
		reservations: repo.NewMongoReservationRepository(database),
		metrics:      repo.NewMongoMetricsRepository(database, threshold),
		close:        func() { _ = client.Disconnect(context.Background()) },
	}
}

func newSink(cfg config.EventsConfig, tp trace.TracerProvider, lg *zap.Logger) (events.Sink, error) {
	if len(cfg.KafkaBrokers) > 0 {
		lg.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
		return events.NewKafkaSink(cfg.KafkaBrokers, tp)
	}
	lg.Info("no kafka brokers configured, writing events to file", zap.String("path", cfg.LogPath))
	return events.NewFileSink(cfg.LogPath)
}
