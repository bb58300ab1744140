// Package main provides the entrypoint for the SkyRota background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/database"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/user"
	"github.com/skyrota/skyrota/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skyrota-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SkyRota worker")

	// Get port from environment or default to 8080
	// Worker also exposes health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	userRepo := user.NewPostgresRepository(pool)
	flightRepo := flight.NewPostgresRepository(pool)
	activityRepo := activity.NewPostgresRepository(pool)

	sweepJob := worker.NewSweepJob(worker.SweepJobConfig{
		Config:     worker.DefaultSweepConfig(),
		Flights:    flightRepo,
		Activities: activityRepo,
		Logger:     log,
	})

	notifier := worker.NewNotifier(worker.NotifierConfig{
		Users:      userRepo,
		WebhookURL: os.Getenv("CREW_WEBHOOK_URL"),
		Logger:     log,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start the Pub/Sub subscriber when configured; otherwise run the sweep
	// on a timer so a local worker still reconciles the roster.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: envOrDefault("PUBSUB_SUBSCRIPTION", "skyrota-worker"),
			SweepJob:         sweepJob,
			Notifier:         notifier,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
		}
		defer func() { _ = handler.Close() }()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("pubsub not configured - running periodic sweep only")
		go func() {
			ticker := time.NewTicker(15 * time.Minute)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sweepJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
