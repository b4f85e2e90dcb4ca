package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mercato-app/mercato/internal/app"
	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/brands"
	"github.com/mercato-app/mercato/internal/catalog/categories"
	"github.com/mercato-app/mercato/internal/catalog/products"
	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/directory/stores"
	"github.com/mercato-app/mercato/internal/observability"
	"github.com/mercato-app/mercato/internal/orders"
	"github.com/mercato-app/mercato/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, serving uncached", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	metrics := observability.NewMetrics()
	cacheMetrics := cache.NewMetrics(metrics.Registerer())
	cacheStore := cache.NewStore(redisClient, logger, cacheMetrics)
	recorder := audit.NewRecorder(pool, logger)

	areaService := areas.NewService(logger, areas.NewRepository(pool), cacheStore, recorder)
	storeService := stores.NewService(logger, stores.NewRepository(pool), cacheStore, areaService, recorder)
	productService := products.NewService(logger, products.NewRepository(pool), cacheStore, storeService, recorder)
	categoryService := categories.NewService(logger, categories.NewRepository(pool), cacheStore, recorder)
	brandService := brands.NewService(logger, brands.NewRepository(pool), cacheStore, recorder)
	orderService := orders.NewService(logger, orders.NewRepository(pool), cacheStore, recorder)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ProductsHandler:   products.NewHandler(logger, productService, metrics),
		CategoriesHandler: categories.NewHandler(logger, categoryService),
		BrandsHandler:     brands.NewHandler(logger, brandService),
		AreasHandler:      areas.NewHandler(logger, areaService),
		StoresHandler:     stores.NewHandler(logger, storeService),
		OrdersHandler:     orders.NewHandler(logger, orderService),
		AuditHandler:      audit.NewHandler(logger, recorder),
		CacheHandler:      cache.NewHandler(logger, cacheStore, cfg.RevalidateSecret),
		Pool:              pool,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.Any("error", err))
	}
}
