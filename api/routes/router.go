package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gainschef/backend/api/controllers"
	webhookcontrollers "github.com/gainschef/backend/api/controllers/webhooks"
	"github.com/gainschef/backend/api/middleware"
	checkoutsvc "github.com/gainschef/backend/internal/checkout"
	"github.com/gainschef/backend/internal/orders"
	stripewebhook "github.com/gainschef/backend/internal/webhooks/stripe"
	"github.com/gainschef/backend/pkg/config"
	"github.com/gainschef/backend/pkg/db"
	"github.com/gainschef/backend/pkg/logger"
	"github.com/gainschef/backend/pkg/redis"
	"github.com/gainschef/backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	nutritionService controllers.NutritionService,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Get("/checkout/confirmation/{sessionId}", controllers.CheckoutConfirmation(ordersService, sessionFetcherOrNil(stripeClient), logg))

		r.Route("/nutrition", func(r chi.Router) {
			r.Get("/foods", controllers.NutritionSearch(nutritionService, logg))
			r.Get("/foods/{foodId}", controllers.NutritionFood(nutritionService, logg))
		})
	})

	return r
}

// sessionFetcherOrNil keeps a nil client from becoming a non-nil interface.
func sessionFetcherOrNil(client *stripe.Client) controllers.SessionFetcher {
	if client == nil {
		return nil
	}
	return client
}
