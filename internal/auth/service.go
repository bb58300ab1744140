package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/user"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID string
	Admin  bool
}

// Service provides authentication operations.
type Service struct {
	users  user.Repository
	jwt    *JWTService
	logger zerolog.Logger
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	Users  user.Repository
	JWT    *JWTService
	Logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		users:  cfg.Users,
		jwt:    cfg.JWT,
		logger: cfg.Logger,
	}
}

// Login authenticates an email and password pair and issues an access token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	s.logger.Info().
		Str("user_id", u.ID).
		Bool("admin", u.Admin).
		Msg("user logged in")

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateAccessToken resolves a bearer token to the caller's identity.
func (s *Service) ValidateAccessToken(tokenString string) (*Identity, error) {
	claims, err := s.jwt.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID: claims.UserID,
		Admin:  claims.Admin,
	}, nil
}
