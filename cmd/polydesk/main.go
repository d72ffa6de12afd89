package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polydesk/polydesk/internal/config"
	"github.com/polydesk/polydesk/internal/database"
	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
	"github.com/polydesk/polydesk/internal/server"
	"github.com/polydesk/polydesk/internal/service"
	"github.com/polydesk/polydesk/internal/sheets"
	"github.com/polydesk/polydesk/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	log.Println("Database connected successfully")

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return err
	}
	log.Println("Migrations completed successfully")

	// Initialize repositories
	dealRepo := repository.NewDealRepository(db)
	counterpartyRepo := repository.NewCounterpartyRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	taskRepo := repository.NewSyncTaskRepository(db)

	// Initialize event bus and sync configuration
	bus := events.NewBus()
	configProvider := service.NewConfigProvider(models.SyncConfig{
		AutoSyncEnabled:     cfg.AutoSyncEnabled,
		SyncIntervalMinutes: cfg.SyncInterval,
		ConflictResolution:  models.ConflictDatabaseWins,
		BatchSize:           cfg.BatchSize,
		RetryAttempts:       cfg.MaxRetries,
	})

	// Initialize Google Sheets gateway
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		return err
	}
	if err := sheetsClient.EnsureHeader(ctx); err != nil {
		log.Printf("Warning: failed to ensure sheet header: %v", err)
	}

	// Initialize services
	dealService := service.NewDealService(dealRepo, inventoryRepo, bus)
	syncService := service.NewSyncService(dealRepo, sheetsClient, bus, configProvider)
	analyticsService := service.NewAnalyticsService(db)

	// Initialize watcher and hook it into deal lifecycle events
	w := watcher.New(cfg, taskRepo, syncService, bus)
	w.RegisterSubscriptions()

	// Initialize HTTP server
	srv := server.New(dealService, syncService, analyticsService, counterpartyRepo, inventoryRepo, taskRepo, bus)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start watcher in goroutine
	watcherErr := make(chan error, 1)
	go func() {
		watcherErr <- w.Start(ctx)
	}()

	// Start HTTP server in goroutine
	httpErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		httpErr <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}

		select {
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded")
		case err := <-watcherErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Watcher error: %v", err)
			}
		}

		log.Println("Application stopped")
		return nil

	case err := <-watcherErr:
		return err

	case err := <-httpErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
