package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/chapterfin/chapterledger/cmd/docs"
	portsrepo "github.com/chapterfin/chapterledger/internal/core/ports/repositories"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/handlers"
	"github.com/chapterfin/chapterledger/internal/middleware"
	"github.com/chapterfin/chapterledger/internal/notifiers"
	"github.com/chapterfin/chapterledger/internal/platform/config"
	"github.com/chapterfin/chapterledger/internal/platform/dues"
	"github.com/chapterfin/chapterledger/internal/repositories/database/pgsql"
	"github.com/chapterfin/chapterledger/pkg/database"
)

// @title ChapterLedger API
// @version 1.0
// @description Ledger, reconciliation, dues and inventory backend for chapter bookkeeping.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	schedule := dues.Default()
	if cfg.DuesSchedulePath != "" {
		schedule, err = dues.Load(cfg.DuesSchedulePath)
		if err != nil {
			logger.Error("Failed to load dues schedule", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := buildServices(repos, logger, schedule, cfg.HomeCountry)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimiter, err := buildRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterCustomValidators()
	handlers.RegisterRoutes(r, cfg, container, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires the repositories into the service container in
// dependency order.
func buildServices(repos portsrepo.RepositoryProvider, logger *slog.Logger, schedule dues.Schedule, homeCountry string) *portssvc.ServiceContainer {
	inventorySvc := services.NewInventoryService(repos.InventoryRepo)
	balanceSvc := services.NewBalanceService(repos.AccountRepo, repos.TxnRepo, repos.SplitRepo)
	txnSvc := services.NewTransactionService(repos.TxnRepo, repos.SplitRepo, inventorySvc)
	splitSvc := services.NewSplitService(repos.SplitRepo, repos.TxnRepo)
	accountSvc := services.NewAccountService(repos.AccountRepo, balanceSvc)
	reconSvc := services.NewReconciliationService(repos.ReconRepo, repos.AccountRepo, repos.TxnRepo, repos.SplitRepo, balanceSvc)
	notifier := notifiers.NewLogNotifier(logger)
	duesSvc := services.NewDuesService(repos.TxnRepo, repos.MemberRepo, notifier, schedule, homeCountry)
	reportingSvc := services.NewReportingService(repos.TxnRepo, repos.SplitRepo, repos.AccountRepo, balanceSvc)

	return &portssvc.ServiceContainer{
		Txn:            txnSvc,
		Split:          splitSvc,
		Account:        accountSvc,
		Balance:        balanceSvc,
		Reconciliation: reconSvc,
		Dues:           duesSvc,
		Inventory:      inventorySvc,
		Reporting:      reportingSvc,
	}
}

func buildRateLimiter(format string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// runMigrations applies all pending up migrations using a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
