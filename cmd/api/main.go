// Package main provides the entrypoint for the SkyRota API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/airport"
	"github.com/skyrota/skyrota/internal/api"
	"github.com/skyrota/skyrota/internal/api/middleware"
	"github.com/skyrota/skyrota/internal/auth"
	"github.com/skyrota/skyrota/internal/database"
	"github.com/skyrota/skyrota/internal/events"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/provider/resilience"
	"github.com/skyrota/skyrota/internal/swap"
	"github.com/skyrota/skyrota/internal/telemetry"
	"github.com/skyrota/skyrota/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skyrota-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SkyRota API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize repositories
	userRepo := user.NewPostgresRepository(pool)
	flightRepo := flight.NewPostgresRepository(pool)
	activityRepo := activity.NewPostgresRepository(pool)
	swapStore := swap.NewPostgresStore(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     envOrDefault("JWT_ISSUER", "https://api.skyrota.io"),
		Audience:   envOrDefault("JWT_AUDIENCE", "skyrota-api"),
	})

	authService := auth.NewService(auth.ServiceConfig{
		Users:  userRepo,
		JWT:    jwtService,
		Logger: log,
	})
	log.Info().Msg("auth service initialized")

	// Initialize airport directory (optional enrichment)
	var airports flight.AirportDirectory
	if baseURL := os.Getenv("AIRPORT_API_URL"); baseURL != "" {
		airports = airport.NewClient(airport.ClientConfig{
			BaseURL:  baseURL,
			Registry: resilience.GlobalRegistry,
			Metrics:  providerMetrics,
		})
		log.Info().Str("base_url", baseURL).Msg("airport directory initialized")
	} else {
		log.Warn().Msg("airport directory not configured - flights stored without time zone offsets")
	}

	flightService := flight.NewService(flight.ServiceConfig{
		Repository: flightRepo,
		Airports:   airports,
		Logger:     log,
	})
	log.Info().Msg("flight service initialized")

	// Initialize event publisher (optional)
	var publisher events.Publisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		pubsubPublisher, pubErr := events.NewPubSubPublisher(ctx, events.PubSubConfig{
			ProjectID: projectID,
			TopicName: envOrDefault("PUBSUB_TOPIC", "swap-events"),
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to initialize pubsub publisher")
		}
		defer func() { _ = pubsubPublisher.Close() }()
		publisher = pubsubPublisher
		log.Info().Str("project_id", projectID).Msg("pubsub publisher initialized")
	} else {
		log.Warn().Msg("pubsub not configured - swap decisions will not be announced")
	}

	swapService := swap.NewService(swap.ServiceConfig{
		Store:      swapStore,
		Flights:    flightRepo,
		Activities: activityRepo,
		Users:      userRepo,
		Publisher:  publisher,
		Logger:     log,
	})
	log.Info().Msg("swap service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		AuthService:   authService,
		FlightService: flightService,
		SwapService:   swapService,
		Pool:          pool,
		Registry:      resilience.GlobalRegistry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
