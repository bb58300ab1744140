// Package api provides the HTTP API for SkyRota.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/api/handler"
	"github.com/skyrota/skyrota/internal/api/middleware"
	"github.com/skyrota/skyrota/internal/auth"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/provider/resilience"
	"github.com/skyrota/skyrota/internal/swap"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	AuthService   *auth.Service
	FlightService *flight.Service
	SwapService   *swap.Service

	// Pool is optional and only used for readiness checks.
	Pool *pgxpool.Pool

	// Registry is optional and feeds the operator status endpoint.
	Registry *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "skyrota-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.Registry)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	dutyHandler := handler.NewDutyHandler()
	flightHandler := handler.NewFlightHandler(cfg.FlightService)
	swapHandler := handler.NewSwapHandler(cfg.SwapService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)             // 10 req/min
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (health and readiness public, status admin-only)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware, middleware.RequireAdmin).Get("/status", opsHandler.StatusCheck)
		})

		// Duty calculator (authenticated)
		r.With(authMiddleware, expensiveRateLimit).Post("/duty:calculate", dutyHandler.Calculate)

		// Flights (authenticated; scheduling is admin-only)
		r.Route("/flights", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", flightHandler.List)
			r.With(middleware.RequireAdmin).Post("/", flightHandler.Create)
			r.Get("/{flightId}", flightHandler.Get)
		})

		// Swaps (authenticated; decisions are admin-only)
		r.Route("/swaps", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", swapHandler.List)
			r.Post("/", swapHandler.Create)
			r.Route("/{swapId}", func(r chi.Router) {
				r.Get("/", swapHandler.Get)
				r.Post("/claim", swapHandler.Claim)
				r.With(middleware.RequireAdmin).Post("/validate", swapHandler.Validate)
				r.With(middleware.RequireAdmin).Post("/approve", swapHandler.Approve)
				r.With(middleware.RequireAdmin).Post("/reject", swapHandler.Reject)
			})
		})
	})

	return r
}
