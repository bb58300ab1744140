package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/api/response"
	"github.com/skyrota/skyrota/internal/flight"
)

// FlightHandler handles flight endpoints.
type FlightHandler struct {
	service *flight.Service
}

// NewFlightHandler creates a new FlightHandler.
func NewFlightHandler(service *flight.Service) *FlightHandler {
	return &FlightHandler{service: service}
}

// List handles GET /v1/flights - list scheduled flights.
func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)
	cursor := r.URL.Query().Get("cursor")

	flights, err := h.service.List(r.Context(), limit, cursor)
	if err != nil {
		response.InternalError(w, r, "failed to list flights")
		return
	}

	response.JSON(w, r, http.StatusOK, flights)
}

// Get handles GET /v1/flights/{flightId} - fetch one flight.
func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightId")

	result, err := h.service.Get(r.Context(), flightID)
	if err != nil {
		if errors.Is(err, flight.ErrFlightNotFound) {
			response.NotFound(w, r, "flight not found")
			return
		}
		response.InternalError(w, r, "failed to fetch flight")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Create handles POST /v1/flights - schedule a new flight.
func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.FlightCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Create(r.Context(), &input)
	if err != nil {
		var validationErr *flight.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create flight")
		return
	}

	response.Created(w, r, "/v1/flights/"+result.ID, result)
}

// parseLimit reads the limit query parameter, clamped to [1, 200].
func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > 200 {
		return 200
	}
	return limit
}
