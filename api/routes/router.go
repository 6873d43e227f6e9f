package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/controllers"
	cartcontrollers "github.com/JuanManuelMartinezAngel/asesfy2.0/api/controllers/cart"
	catalogcontrollers "github.com/JuanManuelMartinezAngel/asesfy2.0/api/controllers/catalog"
	quotecontrollers "github.com/JuanManuelMartinezAngel/asesfy2.0/api/controllers/quotes"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/quotes"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/search"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/redis"
)

// Deps carries the services the HTTP surface is built from. DB and Redis are optional.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Gatherer     prometheus.Gatherer
	HTTPMetrics  *metrics.HTTPMetrics
	QuoteMetrics *metrics.QuoteMetrics
	Catalog      *catalog.Loader
	Searches     *search.Recorder
	Carts        *cart.Registry
	Quotes       *quotes.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["database"] = deps.DB
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	cartHandlers := cartcontrollers.NewHandlers(deps.Carts, deps.Catalog, deps.QuoteMetrics, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.SecureHeaders(cfg.App.IsProd()),
			middleware.CORS(cfg.App.AllowedOrigins()),
			middleware.GlobalRateLimit(cfg.App.GlobalRateLimit, logg),
			middleware.CartSession(cfg.Cart, logg),
		)

		r.Route("/services", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListServices(deps.Catalog, deps.Searches, cfg.App.IsDev(), logg))
			r.Get("/{code}", catalogcontrollers.GetService(deps.Catalog, deps.Carts, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandlers.Get())
			r.Delete("/", cartHandlers.Clear())
			r.Post("/items", cartHandlers.AddItem())
			r.Patch("/items/{itemId}", cartHandlers.UpdateItem())
			r.Delete("/items/{itemId}", cartHandlers.RemoveItem())
			r.Post("/open", cartHandlers.Open())
			r.Post("/close", cartHandlers.Close())
			r.Post("/toggle", cartHandlers.Toggle())
		})

		r.Delete("/session", controllers.EndSession(deps.Quotes, cfg.Cart.SessionCookie(), logg))

		r.Route("/quote-requests", func(r chi.Router) {
			r.With(quoteSubmissionGuards(deps)...).Post("/", quotecontrollers.Submit(deps.Quotes, logg))
			r.Get("/status", quotecontrollers.Status(deps.Quotes, logg))
		})
	})

	return r
}

// quoteSubmissionGuards returns the Redis-backed limiter and idempotency layers, or
// none when Redis is not configured.
func quoteSubmissionGuards(deps Deps) []func(http.Handler) http.Handler {
	if deps.Redis == nil {
		return nil
	}
	q := deps.Config.Quotes
	policy := middleware.NewRateLimitPolicy("quotes", q.RateLimitWindow, q.RateLimitIP, q.RateLimitEmail)
	return []func(http.Handler) http.Handler{
		middleware.SubmissionRateLimit(policy, deps.Redis, deps.Logger),
		middleware.Idempotency(deps.Redis, q.IdempotencyTTL, deps.Logger),
	}
}
