package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/api/routes"
	"github.com/partshub/partshub-backend/internal/cart"
	"github.com/partshub/partshub-backend/internal/catalog"
	"github.com/partshub/partshub-backend/internal/checkout"
	"github.com/partshub/partshub-backend/internal/dealers"
	"github.com/partshub/partshub-backend/internal/orders"
	"github.com/partshub/partshub-backend/internal/pricing"
	"github.com/partshub/partshub-backend/pkg/config"
	"github.com/partshub/partshub-backend/pkg/db"
	"github.com/partshub/partshub-backend/pkg/enums"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/metrics"
	"github.com/partshub/partshub-backend/pkg/migrate"
	"github.com/partshub/partshub-backend/pkg/ordernum"
	"github.com/partshub/partshub-backend/pkg/outbox"
	"github.com/partshub/partshub-backend/pkg/pubsub"
	"github.com/partshub/partshub-backend/pkg/redis"
)

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

	currency := enums.Currency(cfg.Pricing.Currency)

	dealerRepo := dealers.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	pricingService, err := pricing.NewService(dealerRepo, catalogRepo, currency)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dealerRepo, catalogRepo, pricingService, currency)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	newResolver := func(tx *gorm.DB) (checkout.PriceResolver, error) {
		resolver, resolverErr := pricing.NewService(dealerRepo.WithTx(tx), catalogRepo.WithTx(tx), currency)
		if resolverErr != nil {
			return nil, resolverErr
		}
		return resolver, nil
	}

	checkoutService, err := checkout.NewService(
		dbClient,
		cartRepo,
		orderRepo,
		emitter,
		ordernum.NewTimeRandom(),
		newResolver,
		currency,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	domainMetrics := metrics.NewDomainMetrics(registry)

	deps := routes.Dependencies{
		Logger:           logg,
		Pricing:          pricingService,
		Cart:             cartService,
		Checkout:         checkoutService,
		Orders:           orderService,
		IdempotencyStore: redisClient,
		Metrics:          domainMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		DBPinger:         dbClient,
		RedisPinger:      redisClient,
	}

	if cfg.GCP.ProjectID != "" {
		pubsubClient, psErr := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if psErr != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", psErr)
			os.Exit(1)
		}
		defer pubsubClient.Close()
		deps.PubSubPinger = pubsubClient
	}

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
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}
}
