package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partshub/partshub-backend/api/controllers"
	"github.com/partshub/partshub-backend/api/middleware"
	"github.com/partshub/partshub-backend/internal/cart"
	"github.com/partshub/partshub-backend/internal/checkout"
	"github.com/partshub/partshub-backend/internal/orders"
	"github.com/partshub/partshub-backend/internal/pricing"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/metrics"
	"github.com/partshub/partshub-backend/pkg/redis"
)

// Pinger is the health-check surface a dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies carries everything the HTTP surface needs. Nil health
// pingers are reported as skipped; a nil idempotency store disables
// response replay.
type Dependencies struct {
	Logger *logger.Logger

	Pricing  pricing.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service

	IdempotencyStore redis.IdempotencyStore
	Metrics          *metrics.DomainMetrics
	MetricsHandler   http.Handler

	DBPinger     Pinger
	RedisPinger  Pinger
	PubSubPinger Pinger
}

// NewRouter wires the portal API.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DBPinger, deps.RedisPinger, deps.PubSubPinger))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	idempotent := middleware.Idempotency(deps.IdempotencyStore, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.DealerContext(deps.Logger))

		r.Route("/prices", func(r chi.Router) {
			r.Get("/{productCode}", controllers.PriceQuote(deps.Pricing, deps.Metrics, deps.Logger))
			r.Post("/quote", controllers.PriceQuoteBulk(deps.Pricing, deps.Metrics, deps.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Logger))
			r.With(idempotent).Post("/items", controllers.CartAddItem(deps.Cart, deps.Logger))
			r.Put("/items/{productCode}", controllers.CartUpdateItem(deps.Cart, deps.Logger))
			r.Delete("/items/{productCode}", controllers.CartRemoveItem(deps.Cart, deps.Logger))
		})

		r.With(idempotent).Post("/checkout", controllers.Checkout(deps.Checkout, deps.Metrics, deps.Logger))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, deps.Logger))
			r.Get("/{orderRef}", controllers.OrderGet(deps.Orders, deps.Logger))
		})
	})

	return r
}
