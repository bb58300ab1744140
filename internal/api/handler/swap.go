package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/api/response"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/swap"
)

// SwapHandler handles flight-swap endpoints.
type SwapHandler struct {
	service *swap.Service
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(service *swap.Service) *SwapHandler {
	return &SwapHandler{service: service}
}

// List handles GET /v1/swaps - list swap proposals.
func (h *SwapHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)
	status := r.URL.Query().Get("status")

	swaps, err := h.service.List(r.Context(), limit, status)
	if err != nil {
		response.InternalError(w, r, "failed to list swaps")
		return
	}

	response.JSON(w, r, http.StatusOK, swaps)
}

// Get handles GET /v1/swaps/{swapId} - fetch one proposal.
func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "swapId"))
	if err != nil {
		h.writeError(w, r, err, "failed to fetch swap")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Create handles POST /v1/swaps - post a flight for swapping.
func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.SwapCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.FlightID == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "flightId", Message: "is required"},
		})
		return
	}

	result, err := h.service.Create(r.Context(), GetUserID(r.Context()), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to create swap")
		return
	}

	response.Created(w, r, "/v1/swaps/"+result.ID, result)
}

// Claim handles POST /v1/swaps/{swapId}/claim - offer a flight in return.
func (h *SwapHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var input models.SwapClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.FlightID == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "flightId", Message: "is required"},
		})
		return
	}

	result, err := h.service.Claim(r.Context(), chi.URLParam(r, "swapId"), GetUserID(r.Context()), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to claim swap")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Validate handles POST /v1/swaps/{swapId}/validate - check a pending swap
// for role and schedule conflicts without mutating anything.
func (h *SwapHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Validate(r.Context(), chi.URLParam(r, "swapId"))
	if err != nil {
		h.writeError(w, r, err, "failed to validate swap")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Approve handles POST /v1/swaps/{swapId}/approve - finalize the swap.
func (h *SwapHandler) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Approve(r.Context(), chi.URLParam(r, "swapId"), GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "failed to approve swap")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Reject handles POST /v1/swaps/{swapId}/reject - close the swap unchanged.
func (h *SwapHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var input models.SwapRejectRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.BadRequest(w, r, "invalid JSON body", nil)
			return
		}
	}

	result, err := h.service.Reject(r.Context(), chi.URLParam(r, "swapId"), GetUserID(r.Context()), input.Reason)
	if err != nil {
		h.writeError(w, r, err, "failed to reject swap")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// writeError maps swap domain errors onto problem responses.
func (h *SwapHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, swap.ErrSwapNotFound):
		response.NotFound(w, r, "swap not found")
	case errors.Is(err, flight.ErrFlightNotFound):
		response.NotFound(w, r, "flight not found")
	case errors.Is(err, swap.ErrRoleMismatch):
		response.Conflict(w, r, "crew roles do not match")
	case errors.Is(err, swap.ErrNotCrewMember):
		response.BadRequest(w, r, "user is not assigned to this flight", nil)
	case errors.Is(err, swap.ErrNotClaimable):
		response.Conflict(w, r, "swap is not open for claims")
	case errors.Is(err, swap.ErrNotPending):
		response.Conflict(w, r, "swap is not pending approval")
	case errors.Is(err, swap.ErrSelfSwap):
		response.BadRequest(w, r, "cannot swap a flight with yourself", nil)
	default:
		response.InternalError(w, r, fallback)
	}
}
