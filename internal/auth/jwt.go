// Package auth provides password authentication and JWT issuance for SkyRota.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skyrota/skyrota/internal/user"
)

// AccessTokenExpiry is how long access tokens are valid. Short expiry limits
// exposure if a token is compromised.
const AccessTokenExpiry = 1 * time.Hour

// Predefined JWT errors.
var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("access token has expired")
)

// JWTClaims represents the claims in our API access tokens.
type JWTClaims struct {
	jwt.RegisteredClaims

	// UserID is the authenticated user's ID.
	UserID string `json:"uid"`

	// Admin marks approval and flight-management privileges.
	Admin bool `json:"adm,omitempty"`
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey is the secret key used to sign JWTs.
	SigningKey string

	// Issuer is the issuer claim for tokens (e.g., "https://api.skyrota.io").
	Issuer string

	// Audience is the audience claim for tokens (e.g., "skyrota-api").
	Audience string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// GenerateAccessToken creates a new access token for the given user.
func (s *JWTService) GenerateAccessToken(u *user.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(AccessTokenExpiry)

	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateTokenID(),
		},
		UserID: u.ID,
		Admin:  u.Admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken validates an access token and returns the claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAccessTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccessToken, err.Error())
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidAccessToken
	}

	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
