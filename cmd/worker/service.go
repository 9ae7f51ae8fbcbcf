package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkempe/inventory-backend/internal/gateway"
	"github.com/dkempe/inventory-backend/pkg/config"
	"github.com/dkempe/inventory-backend/pkg/db"
	pkgkafka "github.com/dkempe/inventory-backend/pkg/kafka"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/redis"
)

type ServiceParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Redis     *redis.Client
	Consumers []*gateway.Consumer
	Registry  *prometheus.Registry
}

type Service struct {
	cfg       *config.Config
	logg      *logger.Logger
	db        *db.Client
	redis     *redis.Client
	consumers []*gateway.Consumer
	registry  *prometheus.Registry
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if len(params.Consumers) == 0 {
		return nil, errors.New("at least one consumer is required")
	}

	return &Service{
		cfg:       params.Config,
		logg:      params.Logger,
		db:        params.DB,
		redis:     params.Redis,
		consumers: params.Consumers,
		registry:  params.Registry,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "kafka", s.pingKafka); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func (s *Service) pingKafka(ctx context.Context) error {
	return pkgkafka.Ping(ctx, s.cfg.Kafka)
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	if s.registry != nil && s.cfg.App.Port != "" {
		go s.serveMetrics(ctx)
	}

	errCh := make(chan error, len(s.consumers))
	for _, consumer := range s.consumers {
		consumer := consumer
		go func() {
			errCh <- consumer.Run(ctx)
		}()
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "worker context canceled")
			s.closeConsumers(ctx)
			return ctx.Err()
		case err := <-errCh:
			s.closeConsumers(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, "consumer stopped unexpectedly", err)
				return err
			}
			return err
		case <-ticker.C:
		}
	}
}

func (s *Service) closeConsumers(ctx context.Context) {
	for _, consumer := range s.consumers {
		if err := consumer.Close(); err != nil {
			s.logg.Error(ctx, "error closing consumer", err)
		}
	}
}

func (s *Service) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: ":" + s.cfg.App.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}
