package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labstockhq/labstock-backend/api/controllers"
	"github.com/labstockhq/labstock-backend/api/middleware"
	"github.com/labstockhq/labstock-backend/internal/categories"
	checkoutsvc "github.com/labstockhq/labstock-backend/internal/checkout"
	"github.com/labstockhq/labstock-backend/internal/importer"
	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/internal/locations"
	stocksvc "github.com/labstockhq/labstock-backend/internal/stock"
	summarysvc "github.com/labstockhq/labstock-backend/internal/summary"
	"github.com/labstockhq/labstock-backend/pkg/config"
	"github.com/labstockhq/labstock-backend/pkg/logger"
	pkgredis "github.com/labstockhq/labstock-backend/pkg/redis"
)

// Pinger is a readiness probe over one external store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP, redisP Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	stockLimiter middleware.UserLimiter,
	inventoryService inventory.Service,
	exporter *inventory.Exporter,
	stockService stocksvc.Service,
	checkoutService checkoutsvc.Service,
	categoryService categories.Service,
	locationService locations.Service,
	importService importer.Service,
	summaryService summarysvc.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemsList(inventoryService, logg))
			r.Post("/", controllers.ItemCreate(inventoryService, logg))
			r.Post("/import", controllers.ItemsImport(importService, cfg.Import, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.ItemDetail(inventoryService, logg))
				r.Put("/", controllers.ItemUpdate(inventoryService, logg))
				r.Delete("/", controllers.ItemDelete(inventoryService, logg))
				r.Get("/transactions", controllers.StockTransactionsByItem(stockService, logg))
				r.Get("/levels", controllers.StockLevelsByItem(stockService, logg))
			})
		})

		r.Route("/stock", func(r chi.Router) {
			r.With(middleware.UserRateLimit("stock", stockLimiter, logg)).
				Post("/transactions", controllers.StockTransactionCreate(stockService, logg))
		})

		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
			r.Get("/", controllers.CheckoutList(checkoutService, logg))
			r.Get("/{checkoutId}", controllers.CheckoutDetail(checkoutService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(categoryService, logg))
			r.Post("/", controllers.CategoryCreate(categoryService, logg))
		})
		r.Route("/thresholds", func(r chi.Router) {
			r.Get("/", controllers.ThresholdList(categoryService, logg))
			r.Post("/", controllers.ThresholdUpsert(categoryService, logg))
		})
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationList(locationService, logg))
			r.Post("/", controllers.LocationCreate(locationService, logg))
		})

		r.Get("/export/items", controllers.ItemsExport(exporter, logg))
		r.Get("/summary", controllers.SummaryOverview(summaryService, cfg.Worker, logg))
		r.Get("/summary/low-stock", controllers.SummaryLowStock(summaryService, logg))
	})

	return r
}
