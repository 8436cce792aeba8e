package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/partshub/partshub-backend/pkg/config"
	"github.com/partshub/partshub-backend/pkg/db"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/metrics"
	"github.com/partshub/partshub-backend/pkg/outbox"
	"github.com/partshub/partshub-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	ordersPublisher := newOrdersPublisher(pubsubClient.OrdersPublisher())
	if ordersPublisher == nil {
		logg.Error(ctx, "orders publisher not configured", errors.New("missing orders topic"))
		os.Exit(1)
	}

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Broker:     pubsubClient,
		Repository: outbox.NewRepository(dbClient.DB()),
		Publisher:  ordersPublisher,
		Metrics:    metrics.NewDomainMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		logg.Error(ctx, "failed to create outbox publisher", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"topic": cfg.PubSub.OrdersTopic,
	}), "starting outbox publisher")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}
}
