package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/api/response"
	"github.com/skyrota/skyrota/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /v1/auth/login - email and password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if input.Email == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "email", Message: "is required"})
	}
	if input.Password == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "password", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	tokens, err := h.service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid email or password")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokens)
}
