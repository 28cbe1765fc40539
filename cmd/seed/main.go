package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-reservation/internal/config"
	"github.com/rogerio-castellano/inventory-reservation/internal/db"
	"github.com/rogerio-castellano/inventory-reservation/internal/logger"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
	"github.com/rogerio-castellano/inventory-reservation/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	lg := logger.New(cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var products repo.ProductRepository
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			lg.Fatal("could not connect to database", zap.Error(err))
		}
		defer database.Close()
		if err := db.EnsureSchema(ctx, database); err != nil {
			lg.Fatal("could not create schema", zap.Error(err))
		}
		products = repo.NewPostgresProductRepository(database)

	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			lg.Fatal("could not connect to mongodb", zap.Error(err))
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		products = repo.NewMongoProductRepository(database)

	default:
		lg.Fatal("nothing to seed: the in-memory store is seeded by the api on startup")
	}

	n, err := seed.Load(ctx, products)
	if err != nil {
		lg.Fatal("seeding failed", zap.Error(err))
	}
	lg.Info("catalog seeded", zap.Int("products", n), zap.String("driver", cfg.Store.Driver))
}
