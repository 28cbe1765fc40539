package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/inventory-reservation/docs"
	"github.com/rogerio-castellano/inventory-reservation/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-reservation/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-reservation/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-reservation/internal/metrics"
)

// Options carries the optional cross-cutting pieces. Nil fields are skipped.
type Options struct {
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	RateLimiter *rl.Limiter
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(opts.Logger, opts.Metrics))

	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(mw.RateLimit(opts.RateLimiter))
		}
		r.Post("/reserve", handlers.ReserveHandler)
	})
	r.Get("/reservations/{id}", handlers.GetReservationHandler)
	r.Get("/products/expiring", handlers.GetExpiringProductsHandler)
	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	r.Get("/health", handlers.HealthHandler)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return otelhttp.NewHandler(r, "inventory-reservation",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
