package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sitio/internal/amqp"
	"sitio/internal/cache"
	"sitio/internal/config"
	apphttp "sitio/internal/http"
	"sitio/internal/identity"
	"sitio/internal/rates"
	"sitio/internal/services"
	"sitio/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without it expense events are simply not exported.
	var publisher services.ExpensePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event export", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - expense events will be exported")
		}
	} else {
		logger.Info("AMQP disabled - expense events will not be exported")
	}

	finance := services.NewFinanceService(repo, publisher)
	cv := services.NewCVService(repo, finance, cfg.CVCacheTTL)

	// Periodic eviction of expired snapshot entries.
	cacheManager := cache.NewManager()
	cacheManager.Register(cv.SnapshotCache())
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	var identityClient apphttp.IdentityProvider
	if cfg.IdentityURL != "" {
		identityClient = identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey)
	} else {
		logger.Warn("Identity provider not configured - auth endpoints will fail")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		CV:        cv,
		Finance:   finance,
		Recurring: services.NewRecurringService(repo),
		Processor: services.NewRecurringProcessor(repo, finance),
		Rates:     services.NewRatesService(repo, rates.NewClient(cfg.ExchangeAPIBaseURL, cfg.ExchangeAPIKey)),
		Visitors:  services.NewVisitorService(repo),
		Identity:  identityClient,
		Storage:   repo,
	})
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting sitio server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
