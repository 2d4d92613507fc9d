package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstockhq/labstock-backend/api/middleware"
	"github.com/labstockhq/labstock-backend/api/routes"
	"github.com/labstockhq/labstock-backend/internal/categories"
	checkoutsvc "github.com/labstockhq/labstock-backend/internal/checkout"
	"github.com/labstockhq/labstock-backend/internal/importer"
	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/internal/locations"
	stocksvc "github.com/labstockhq/labstock-backend/internal/stock"
	summarysvc "github.com/labstockhq/labstock-backend/internal/summary"
	"github.com/labstockhq/labstock-backend/pkg/config"
	"github.com/labstockhq/labstock-backend/pkg/db"
	"github.com/labstockhq/labstock-backend/pkg/logger"
	"github.com/labstockhq/labstock-backend/pkg/metrics"
	"github.com/labstockhq/labstock-backend/pkg/migrate"
	"github.com/labstockhq/labstock-backend/pkg/ratelimit"
	"github.com/labstockhq/labstock-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	itemRepo := inventory.NewRepository(dbClient.DB())
	stockRepo := stocksvc.NewRepository(dbClient.DB())
	levelRepo := stocksvc.NewLevelRepo(dbClient.DB())
	checkoutRepo := checkoutsvc.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	locationRepo := locations.NewRepository(dbClient.DB())

	var stockLimiter middleware.UserLimiter
	if cfg.RateLimit.UseRedis() && redisClient != nil {
		stockLimiter = middleware.RedisLimiter{
			Store:  redisClient,
			Limit:  int64(cfg.RateLimit.StockLimit),
			Window: cfg.RateLimit.StockWindow,
		}
	} else {
		stockLimiter = middleware.MemoryLimiter{
			Window: ratelimit.NewSlidingWindow(cfg.RateLimit.StockLimit, cfg.RateLimit.StockWindow),
		}
	}

	inventoryService, err := inventory.NewService(itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	exporter, err := inventory.NewExporter(itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create exporter", err)
		os.Exit(1)
	}
	stockService, err := stocksvc.NewService(stockRepo, levelRepo, itemRepo, stockLimiter, dbClient, workflowMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutRepo, itemRepo, locationRepo, dbClient, workflowMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	locationService, err := locations.NewService(locationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}
	importService, err := importer.NewService(itemRepo, categoryRepo, locationRepo, cfg.Import.MaxRows, workflowMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create import service", err)
		os.Exit(1)
	}
	summaryService, err := summarysvc.NewService(itemRepo, levelRepo, categoryRepo, stockRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create summary service", err)
		os.Exit(1)
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

	var redisPinger routes.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			idempotencyStore,
			stockLimiter,
			inventoryService,
			exporter,
			stockService,
			checkoutService,
			categoryService,
			locationService,
			importService,
			summaryService,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
