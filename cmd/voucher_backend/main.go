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

	"github.com/SscSPs/orsys_voucher_app/internal/cache"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	"github.com/SscSPs/orsys_voucher_app/internal/core/services"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
	"github.com/SscSPs/orsys_voucher_app/internal/handlers"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/SscSPs/orsys_voucher_app/internal/platform/config"
	"github.com/SscSPs/orsys_voucher_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/orsys_voucher_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/orsys_voucher_app/internal/utils"
	"github.com/SscSPs/orsys_voucher_app/internal/worker"
	"github.com/SscSPs/orsys_voucher_app/pkg/database"
	"github.com/gin-gonic/gin"
)

const (
	localEventBuffer     = 256
	cacheCleanupInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

// @title ORSYS Voucher API
// @version 1.0
// @description Cash receipt and payment vouchers, reports and dashboards.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	bus, err := newEventBus(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheManager := cache.NewManager(logger)
	serviceContainer := services.NewServiceContainer(cfg, repos, bus, cacheManager)
	cacheManager.StartCleanup(cacheCleanupInterval)
	defer cacheManager.Stop()

	if cfg.BootstrapAdminID != "" {
		admin, err := serviceContainer.User.EnsureAdmin(ctx, cfg.BootstrapAdminID, cfg.BootstrapAdminEmail)
		if err != nil {
			logger.Error("Failed to ensure bootstrap admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Bootstrap admin ready", slog.String("user_id", admin.UserID))
	}

	refresher := worker.NewDashboardRefresher(bus, serviceContainer.Dashboard)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := refresher.Run(ctx); err != nil {
			logger.Error("Dashboard refresher failed", slog.String("error", err.Error()))
		}
	}()

	if err := utils.RegisterBindingValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lim, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, lim)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	if err := bus.Close(); err != nil {
		logger.Error("Failed to close event bus", slog.String("error", err.Error()))
	}
	<-workerDone
}

// openStore migrates and opens the configured database.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		changed, err := database.MigrateSQLite(cfg.SQLitePath)
		if err != nil {
			db.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logMigrations(logger, changed)
		return sqlite.NewRepositoryProvider(db), func() { db.Close() }, nil
	default:
		changed, err := database.MigratePostgres(cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logMigrations(logger, changed)

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

func logMigrations(logger *slog.Logger, changed bool) {
	if changed {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
}

// newEventBus connects to the broker when one is configured and falls back to an in-process bus.
func newEventBus(cfg *config.Config, logger *slog.Logger) (events.Bus, error) {
	if cfg.AMQPURL == "" {
		return events.NewLocalBus(localEventBuffer), nil
	}
	client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to message broker", slog.String("exchange", cfg.AMQPExchange), slog.String("queue", cfg.AMQPQueue))
	return client, nil
}
