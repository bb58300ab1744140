// Package handler provides HTTP handlers for the SkyRota API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/api/response"
	"github.com/skyrota/skyrota/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string

	// pool is optional; readiness reports OK without a database.
	pool *pgxpool.Pool

	// registry tracks upstream provider health. Optional.
	registry *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, pool *pgxpool.Pool, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pool:      pool,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// StatusCheck handles GET /v1/ops/status - subsystem health for operators.
func (h *OpsHandler) StatusCheck(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		db := models.SubsystemStatus{Name: "database", Status: models.HealthStatusOK}
		if err := h.pool.Ping(ctx); err != nil {
			db.Status = models.HealthStatusFail
			detail := err.Error()
			db.Detail = &detail
			status.Status = models.HealthStatusFail
		}
		status.Subsystems = append(status.Subsystems, db)
	}

	if h.registry != nil {
		for _, provider := range h.registry.GetAllHealth() {
			sub := models.SubsystemStatus{Name: provider.Name, Status: models.HealthStatusOK}
			switch {
			case provider.IsUnhealthy():
				sub.Status = models.HealthStatusFail
				if provider.LastError != "" {
					detail := provider.LastError
					sub.Detail = &detail
				}
				if status.Status == models.HealthStatusOK {
					status.Status = models.HealthStatusDegraded
				}
			case provider.IsDegraded():
				sub.Status = models.HealthStatusDegraded
				if status.Status == models.HealthStatusOK {
					status.Status = models.HealthStatusDegraded
				}
			}
			status.Subsystems = append(status.Subsystems, sub)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}
