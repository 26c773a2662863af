package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentbridge/application/initializer"
	"contentbridge/domain/events"
	"contentbridge/infrastructure/config"
	"contentbridge/infrastructure/di"
	"contentbridge/interfaces/http/rest"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	// Surface state transitions in the log
	unsubscribe := container.Store.Subscribe(func(event events.DomainEvent) {
		logger.Debug("State event", zap.String("event_type", event.GetEventType()))
	})
	defer unsubscribe()

	// Live-edit wiring: backend confirmation stream plus the hook bridge
	if cfg.PreviewMode {
		go container.ChangeEvents.Run(ctx)

		if err := container.Bridge.Register(ctx); err != nil {
			logger.Fatal("Failed to register live-edit bridge", zap.Error(err))
		}
		logger.Info("Live-edit bridge registered",
			zap.String("change_events_url", cfg.ChangeEventsURL),
		)
	}

	// Bring the application state up before serving traffic; failures land
	// in the error state and surface through /api/v1/app
	container.Initializer.Initialize(ctx, initializer.Params{
		Locale:                 cfg.DefaultLocale,
		UseExactDatasetRouting: cfg.UseExactDatasetRouting,
		RemoteProjectID:        cfg.RemoteDatasetProjectID,
		PageRefMapping:         cfg.PageRefMapping,
		ValidLanguages:         cfg.ValidLanguages,
	})

	// Create router
	deps := rest.Deps{
		Store:        container.Store,
		Initializer:  container.Initializer,
		Coordinator:  container.Coordinator,
		Options:      container.Options,
		RouteTracker: container.RouteTracker,
		EnableCORS:   cfg.EnableCORS,
	}
	if cfg.PreviewMode {
		deps.Hooks = container.Hooks
	}
	router := rest.NewRouter(deps, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Bool("preview_mode", cfg.PreviewMode),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
