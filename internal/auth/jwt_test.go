package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyrota/skyrota/internal/auth"
	"github.com/skyrota/skyrota/internal/user"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.skyrota.io",
		Audience:   "skyrota-api",
	})
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc := newJWTService()

	u := &user.User{
		ID:    "usr_test123",
		Name:  "Test Pilot",
		Email: "pilot@example.com",
		Admin: true,
	}

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.ID, claims.Subject)
	assert.True(t, claims.Admin)
	assert.Equal(t, "https://api.skyrota.io", claims.Issuer)
}

func TestJWTService_NonAdminClaims(t *testing.T) {
	svc := newJWTService()

	token, _, err := svc.GenerateAccessToken(&user.User{ID: "usr_crew"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.False(t, claims.Admin)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	svc := newJWTService()

	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "a-completely-different-key",
		Issuer:     "https://api.skyrota.io",
		Audience:   "skyrota-api",
	})

	token, _, err := other.GenerateAccessToken(&user.User{ID: "usr_test123"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, auth.CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong password"), auth.ErrInvalidCredentials)
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	users := user.NewInMemoryRepository()
	require.NoError(t, users.Create(ctx, &user.User{
		ID:           "usr_alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}))

	svc := auth.NewService(auth.ServiceConfig{
		Users:  users,
		JWT:    newJWTService(),
		Logger: zerolog.Nop(),
	})

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Greater(t, resp.ExpiresIn, int64(0))

		identity, err := svc.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "usr_alice", identity.UserID)
		assert.False(t, identity.Admin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "not-the-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
