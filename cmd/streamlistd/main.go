package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"streamlist/internal/api"
	"streamlist/internal/cart"
	"streamlist/internal/config"
	"streamlist/internal/scheduler"
	"streamlist/internal/search"
	"streamlist/internal/services/tmdb"
	"streamlist/internal/storage"
	"streamlist/internal/utils"
	"streamlist/internal/watchlist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting StreamList")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize storage
	store, err := storage.NewBoltStore(cfg.DatabaseFile, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized")

	// 4. Initialize TMDB client. A missing API key is reported per search,
	// not here.
	tmdbClient := tmdb.NewClient(cfg, logger)
	if !tmdbClient.HasKey() {
		logger.Warn("TMDB_API_KEY is not set, catalog search will report a configuration error")
	}
	logger.Info("TMDB client initialized")

	// 5. Initialize stores
	watchlistStore := watchlist.NewStore(store, logger)
	cartStore := cart.NewStore(store, logger)
	searchStore := search.NewStore(tmdbClient, store, logger)
	logger.Info("Stores initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(store, cfg.SnapshotSchedule, cfg.SnapshotFile, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, watchlistStore, cartStore, searchStore, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("StreamList is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("StreamList stopped")
	return nil
}
