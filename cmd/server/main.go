package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/cache"
	"github.com/physiotrack/physio-sync/internal/config"
	"github.com/physiotrack/physio-sync/internal/database"
	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/handlers"
	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/middleware"
	"github.com/physiotrack/physio-sync/internal/repository"
	"github.com/physiotrack/physio-sync/internal/services"
	"github.com/physiotrack/physio-sync/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting physio-sync")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize the session cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis session cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory session cache initialized")
	}

	// Initialize the document store
	store, err := docstore.NewPostgresStore(database.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize document store")
	}

	// Initialize the identity provider
	accounts, err := identity.NewPostgresAccountStore(database.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize account store")
	}
	provider := identity.NewLocalProvider(accounts, cacheImpl, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.ResetTokenTTL)
	googleVerifier := identity.NewGoogleVerifier(cfg.Auth.GoogleTokenInfo, cfg.Auth.GoogleHTTPRetry, cfg.Auth.GoogleHTTPWait)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(store)
	patientRepo := repository.NewPatientRepository(store)
	measurementRepo := repository.NewMeasurementRepository(store)

	// Initialize services
	authService := services.NewAuthService(provider, googleVerifier, profileRepo)
	patientService := services.NewPatientService(patientRepo)
	measurementService := services.NewMeasurementService(measurementRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService)
	measurementHandler := handlers.NewMeasurementHandler(measurementService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)
		r.Post("/auth/signin/google", authHandler.SignInGoogle)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		// Session-scoped endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))

			r.Post("/auth/signout", authHandler.SignOut)
			r.Post("/auth/reauthenticate", authHandler.Reauthenticate)
			r.Get("/auth/providers", authHandler.Providers)
			r.Put("/auth/password", authHandler.UpdatePassword)
			r.Put("/auth/email", authHandler.UpdateEmail)
			r.Delete("/auth/account", authHandler.DeleteAccount)

			r.Get("/profile", authHandler.Profile)

			r.Post("/patients", patientHandler.Create)
			r.Get("/patients", patientHandler.List)
			r.Delete("/patients/{patientID}", patientHandler.Delete)

			r.Get("/patients/{patientID}/measurements/{testType}", measurementHandler.List)
			r.Post("/patients/{patientID}/measurements/{testType}", measurementHandler.Create)
			r.Delete("/patients/{patientID}/measurements/{testType}/{recordID}", measurementHandler.Delete)
			r.Get("/patients/{patientID}/measurements/{testType}/series", measurementHandler.Series)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
