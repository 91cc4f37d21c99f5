package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsfeed/internal/config"
	"newsfeed/internal/feed"
	"newsfeed/internal/handler"
	"newsfeed/internal/metrics"
	"newsfeed/internal/newsapi"
	"newsfeed/internal/reporting"
	"newsfeed/internal/repository/postgres"
	"newsfeed/internal/service"
	"newsfeed/internal/session"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting news feed bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Int("page_size", cfg.Feed.PageSize),
		zap.Duration("view_threshold", cfg.Feed.ViewThreshold),
		zap.String("like_reconcile", cfg.Feed.LikeReconcile),
	)

	reconciler, err := feed.ReconcilerByName(cfg.Feed.LikeReconcile)
	if err != nil {
		logger.Fatal("Invalid like reconcile policy", zap.Error(err))
	}

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Diagnostics journal
	failureRepo := postgres.NewFailureRepo(db)
	diagnostics := service.NewDiagnosticsService(failureRepo, cfg.Database.RetentionDays, logger)

	// Recommendation service client and report delivery
	api := newsapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	dispatcher := reporting.New(api, reporting.Config{
		Workers:       cfg.Reporting.Workers,
		QueueSize:     cfg.Reporting.QueueSize,
		RatePerSecond: cfg.Reporting.Rate,
		Timeout:       cfg.HTTPTimeout,
	}, logger)

	opts := session.Options{
		Loader: feed.LoaderConfig{
			PageSize:     cfg.Feed.PageSize,
			ArticleLimit: cfg.Feed.ArticleLimit,
		},
		ViewThreshold: cfg.Feed.ViewThreshold,
		Reconciler:    reconciler,
	}
	registry, err := session.NewRegistry(cfg.MaxSessions, func(chatID int64) *session.Controller {
		return session.NewController(api, dispatcher, diagnostics, opts, logger.With(zap.Int64("chat_id", chatID)))
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create session registry", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize handler
	h := handler.NewHandler(ctx, bot, registry, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	g, gctx := errgroup.WithContext(ctx)

	// Start cleanup job in background
	g.Go(func() error {
		runCleanupJob(gctx, diagnostics, logger)
		return nil
	})

	// Serve metrics and health checks
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		logger.Info("Metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal or a failed background job
	<-gctx.Done()

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	dispatcher.Close()
	stop()

	if err := g.Wait(); err != nil {
		logger.Error("Background job failed", zap.Error(err))
	}

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies the diagnostics journal schema
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob runs periodic cleanup of old failure records
func runCleanupJob(ctx context.Context, diagnostics *service.DiagnosticsService, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := diagnostics.CleanupOldData(); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := diagnostics.CleanupOldData(); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}
