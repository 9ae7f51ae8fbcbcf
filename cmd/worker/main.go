package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dkempe/inventory-backend/internal/gateway"
	"github.com/dkempe/inventory-backend/internal/inventory"
	"github.com/dkempe/inventory-backend/pkg/config"
	"github.com/dkempe/inventory-backend/pkg/db"
	pkgkafka "github.com/dkempe/inventory-backend/pkg/kafka"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/metrics"
	"github.com/dkempe/inventory-backend/pkg/migrate"
	"github.com/dkempe/inventory-backend/pkg/redis"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	tracerProvider, err := tracing.Init(cfg.Tracing, cfg.App.ServiceName)
	requireResource(ctx, logg, "tracing", err)
	defer func() {
		if err := tracing.Shutdown(context.Background(), tracerProvider); err != nil {
			logg.Error(ctx, "error shutting down tracing", err)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient))

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	if cfg.App.IsDev() {
		requireResource(ctx, logg, "kafka topics",
			pkgkafka.EnsureTopics(context.Background(), cfg.Kafka, append(cfg.Kafka.Topics(), cfg.Kafka.LogTopic)...))
	}

	engine, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient, logg)
	requireResource(ctx, logg, "inventory service", err)

	dispatcher, err := gateway.NewInventoryDispatcher(cfg.Kafka, engine)
	requireResource(ctx, logg, "dispatcher", err)

	publisher, err := gateway.NewLogPublisher(pkgkafka.NewWriter(cfg.Kafka, cfg.Kafka.LogTopic), cfg.App.ServiceName, logg)
	requireResource(ctx, logg, "log publisher", err)

	registry := prometheus.NewRegistry()
	consumerMetrics := metrics.NewConsumerMetrics(registry)

	var consumers []*gateway.Consumer
	for _, topic := range cfg.Kafka.Topics() {
		consumer, err := gateway.NewConsumer(
			pkgkafka.NewReader(cfg.Kafka, topic),
			dispatcher,
			logg,
			cfg.Consumer,
			gateway.ConsumerOptions{
				Dedupe:    redisClient,
				Publisher: publisher,
				Metrics:   consumerMetrics,
			},
		)
		requireResource(ctx, logg, fmt.Sprintf("consumer for %s", topic), err)
		consumers = append(consumers, consumer)
	}

	service, err := NewService(ServiceParams{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Consumers: consumers,
		Registry:  registry,
	})
	requireResource(ctx, logg, "worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":    cfg.App.Env,
		"group":  cfg.Kafka.GroupID,
		"topics": cfg.Kafka.Topics(),
	})
	logg.Info(runCtx, "starting inventory worker")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "worker shut down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
