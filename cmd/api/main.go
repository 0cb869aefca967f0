package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/invoice-service/internal/api/http"
	"github.com/spec-kit/invoice-service/internal/api/http/handlers"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/config"
	"github.com/spec-kit/invoice-service/internal/events"
	"github.com/spec-kit/invoice-service/internal/observability"
	"github.com/spec-kit/invoice-service/internal/persistence"
	"github.com/spec-kit/invoice-service/internal/ratelimit"
	"github.com/spec-kit/invoice-service/internal/repository"
	"github.com/spec-kit/invoice-service/internal/service"
	"github.com/spec-kit/invoice-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	historyRepo := repository.NewInvoiceHistoryRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	var limiter ratelimit.Limiter
	if cfg.Throttle.Store == "redis" {
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.Throttle.Window(), cfg.Throttle.MaxAttempts)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.Throttle.Window(), cfg.Throttle.MaxAttempts)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, userRepo, limiter, logger)
	invoiceService := service.NewInvoiceService(service.InvoiceDependencies{
		InvoiceRepo: invoiceRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		MaxBytes:    cfg.Upload.MaxBytes,
	})
	reportService := service.NewReportService(reportRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{BodyLimit: int(cfg.Upload.MaxBytes) + 1024})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Invoices:       handlers.NewInvoicesHandler(invoiceService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	metrics.LogSnapshot(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
