package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dkempe/inventory-backend/api/routes"
	"github.com/dkempe/inventory-backend/internal/inventory"
	"github.com/dkempe/inventory-backend/pkg/config"
	"github.com/dkempe/inventory-backend/pkg/db"
	pkgkafka "github.com/dkempe/inventory-backend/pkg/kafka"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/migrate"
	"github.com/dkempe/inventory-backend/pkg/redis"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

type kafkaPinger struct {
	cfg config.KafkaConfig
}

func (k kafkaPinger) Ping(ctx context.Context) error {
	return pkgkafka.Ping(ctx, k.cfg)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	tracerProvider, err := tracing.Init(cfg.Tracing, cfg.App.ServiceName)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize tracing", err)
		os.Exit(1)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background(), tracerProvider); err != nil {
			logg.Error(context.Background(), "error shutting down tracing", err)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	engine, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	if cfg.App.IsDev() && cfg.FeatureFlags.SeedDevData {
		if err := inventory.SeedDevData(context.Background(), dbClient.DB(), logg); err != nil {
			logg.Error(context.Background(), "failed to seed dev data", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			Inventory: engine,
			DB:        dbClient,
			Redis:     redisClient,
			Kafka:     kafkaPinger{cfg: cfg.Kafka},
			Registry:  registry,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}
