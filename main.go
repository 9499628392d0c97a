package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/citywalk/go-walk-suggestions/app/db"
	appLogger "github.com/citywalk/go-walk-suggestions/app/logger"
	"github.com/citywalk/go-walk-suggestions/app/observability/metrics"
	"github.com/citywalk/go-walk-suggestions/app/tracer"
	"github.com/citywalk/go-walk-suggestions/config"
	"github.com/citywalk/go-walk-suggestions/internal/api/classifier"
	generativeAI "github.com/citywalk/go-walk-suggestions/internal/api/generative_ai"
	"github.com/citywalk/go-walk-suggestions/internal/api/itinerary"
	"github.com/citywalk/go-walk-suggestions/internal/api/places"
	"github.com/citywalk/go-walk-suggestions/internal/api/session"
	"github.com/citywalk/go-walk-suggestions/internal/router"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics("CityWalkSuggestions", cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// Postgres is optional: with no host configured the service runs
	// without the interaction log.
	var repo itinerary.Repository
	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			os.Exit(1)
		}

		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.Any("error", err))
			os.Exit(1)
		}

		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()

		if !database.WaitForDB(ctx, pool, logger) {
			logger.Error("Database not ready after waiting, exiting.")
			os.Exit(1)
		}
		repo = itinerary.NewPostgresRepository(pool, logger)
	} else {
		logger.Info("Postgres not configured, running without interaction log")
	}

	aiClient, err := generativeAI.NewAIClient(ctx)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		os.Exit(1)
	}

	cityCenter := types.GeoPoint{Lat: cfg.City.CenterLat, Lon: cfg.City.CenterLon}
	provider, err := places.NewTwoGISClient(cfg.City.Name, cityCenter, logger)
	if err != nil {
		logger.Error("Failed to initialize places provider", slog.Any("error", err))
		os.Exit(1)
	}

	classifierService := classifier.NewServiceImpl(aiClient, logger)
	sessionStore := session.NewCacheStore(logger)
	itineraryService := itinerary.NewServiceImpl(classifierService, provider, aiClient, repo, metrics.Get(), &cfg, logger)
	itineraryHandler := itinerary.NewHandlerImpl(itineraryService, sessionStore, logger)

	mainRouter := router.SetupRouter(&router.Config{
		ItineraryHandler: itineraryHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
