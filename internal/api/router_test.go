package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/api"
	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/auth"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/provider/resilience"
	"github.com/skyrota/skyrota/internal/swap"
	"github.com/skyrota/skyrota/internal/user"
)

type testEnv struct {
	router   http.Handler
	users    *user.InMemoryRepository
	flights  *flight.InMemoryRepository
	jwt      *auth.JWTService
	registry *resilience.Registry
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.skyrota.io",
		Audience:   "skyrota-api",
	})

	users := user.NewInMemoryRepository()
	flights := flight.NewInMemoryRepository()
	activities := activity.NewInMemoryRepository()
	store := swap.NewInMemoryStore(flights, activities)

	authService := auth.NewService(auth.ServiceConfig{
		Users:  users,
		JWT:    jwtService,
		Logger: logger,
	})
	flightService := flight.NewService(flight.ServiceConfig{
		Repository: flights,
		Logger:     logger,
	})
	swapService := swap.NewService(swap.ServiceConfig{
		Store:      store,
		Flights:    flights,
		Activities: activities,
		Users:      users,
		Logger:     logger,
	})

	registry := resilience.NewRegistry()

	router := api.NewRouter(api.RouterConfig{
		Version:       "test",
		BuildTime:     "2026-01-01T00:00:00Z",
		Logger:        logger,
		AuthService:   authService,
		FlightService: flightService,
		SwapService:   swapService,
		Registry:      registry,
	})

	return &testEnv{
		router:   router,
		users:    users,
		flights:  flights,
		jwt:      jwtService,
		registry: registry,
	}
}

func (e *testEnv) token(t *testing.T, u *user.User) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/v1/ops/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[models.Health](t, rec)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Status(t *testing.T) {
	env := newTestEnv()
	adminToken := env.token(t, &user.User{ID: "usr_admin", Admin: true})
	crewToken := env.token(t, &user.User{ID: "usr_crew"})

	cfg := resilience.DefaultClientConfig("airport-directory")
	cfg.Registry = env.registry
	_ = resilience.NewClient(cfg)

	t.Run("requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/ops/status", crewToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reports provider health", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/ops/status", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeBody[models.SystemStatus](t, rec)
		assert.Equal(t, models.HealthStatusOK, status.Status)
		require.Len(t, status.Subsystems, 1)
		assert.Equal(t, "airport-directory", status.Subsystems[0].Name)
		assert.Equal(t, models.HealthStatusOK, status.Subsystems[0].Status)
	})
}

func TestRouter_Login(t *testing.T) {
	env := newTestEnv()

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)
	require.NoError(t, env.users.Create(context.Background(), &user.User{
		ID:           "usr_alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}))

	t.Run("valid credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", "", models.LoginRequest{
			Email:    "alice@example.com",
			Password: "correct-password",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		tokens := decodeBody[models.TokenResponse](t, rec)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, "Bearer", tokens.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", "", models.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_DutyCalculate(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, &user.User{ID: "usr_crew"})

	t.Run("requires authentication", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/duty:calculate", "", models.DutyCalculationRequest{
			ReportTime: "09:00",
			Sectors:    2,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("daytime report", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/duty:calculate", token, models.DutyCalculationRequest{
			ReportTime:   "09:00",
			Sectors:      2,
			Acclimatized: true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody[models.DutyCalculationResponse](t, rec)
		assert.Equal(t, 780, result.MaxDutyMinutes)
		assert.Equal(t, "13h00m", result.MaxDutyFormatted)
		assert.NotEmpty(t, result.MinRest)
		require.Len(t, result.Breakdown, 1)
		assert.Equal(t, "Base FDP", result.Breakdown[0].Label)
	})

	t.Run("night report with many sectors", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/duty:calculate", token, models.DutyCalculationRequest{
			ReportTime:   "03:30",
			Sectors:      6,
			Acclimatized: true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody[models.DutyCalculationResponse](t, rec)
		assert.Equal(t, 630, result.MaxDutyMinutes)
	})

	t.Run("invalid report time", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/duty:calculate", token, models.DutyCalculationRequest{
			ReportTime: "25:00",
			Sectors:    2,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid sectors", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/duty:calculate", token, models.DutyCalculationRequest{
			ReportTime: "09:00",
			Sectors:    0,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Flights(t *testing.T) {
	env := newTestEnv()
	adminToken := env.token(t, &user.User{ID: "usr_admin", Admin: true})
	crewToken := env.token(t, &user.User{ID: "usr_crew"})

	createReq := models.FlightCreateRequest{
		Number:             "SR101",
		DepartureAirport:   "AMS",
		ArrivalAirport:     "LHR",
		ScheduledDeparture: models.Timestamp(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)),
		ScheduledArrival:   models.Timestamp(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)),
		Crew: models.FlightCrew{
			PurserID: "usr_purser",
			PilotIDs: []string{"usr_crew"},
		},
	}

	t.Run("scheduling requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/flights", crewToken, createReq)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin schedules and crew reads", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/flights", adminToken, createReq)
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decodeBody[models.Flight](t, rec)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "/v1/flights/"+created.ID, rec.Header().Get("Location"))

		rec = env.do(t, http.MethodGet, "/v1/flights/"+created.ID, crewToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		fetched := decodeBody[models.Flight](t, rec)
		assert.Equal(t, "SR101", fetched.Number)
		assert.Equal(t, []string{"usr_crew"}, fetched.Crew.PilotIDs)

		rec = env.do(t, http.MethodGet, "/v1/flights", crewToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decodeBody[models.PagedFlights](t, rec)
		assert.Len(t, listed.Items, 1)
	})

	t.Run("validation failure", func(t *testing.T) {
		bad := createReq
		bad.DepartureAirport = "Amsterdam"
		rec := env.do(t, http.MethodPost, "/v1/flights", adminToken, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "departureAirport")
	})

	t.Run("unknown flight", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/flights/flt_missing", crewToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_SwapLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	adminToken := env.token(t, &user.User{ID: "usr_admin", Admin: true})
	aliceToken := env.token(t, &user.User{ID: "usr_alice"})
	bobToken := env.token(t, &user.User{ID: "usr_bob"})

	addFlight := func(id, number string, dep time.Time, pilotID string) {
		require.NoError(t, env.flights.Create(ctx, &flight.Flight{
			ID:                 id,
			Number:             number,
			DepartureAirport:   "AMS",
			ArrivalAirport:     "LHR",
			ScheduledDeparture: dep,
			ScheduledArrival:   dep.Add(2 * time.Hour),
			PilotIDs:           []string{pilotID},
			CrewIDs:            []string{pilotID},
		}))
	}
	addFlight("flt_1", "SR101", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), "usr_alice")
	addFlight("flt_2", "SR202", time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC), "usr_bob")

	// Post
	rec := env.do(t, http.MethodPost, "/v1/swaps", aliceToken, models.SwapCreateRequest{FlightID: "flt_1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	posted := decodeBody[models.Swap](t, rec)
	assert.Equal(t, "posted", posted.Status)

	// Claim
	rec = env.do(t, http.MethodPost, "/v1/swaps/"+posted.ID+"/claim", bobToken, models.SwapClaimRequest{FlightID: "flt_2"})
	require.Equal(t, http.StatusOK, rec.Code)
	claimed := decodeBody[models.Swap](t, rec)
	assert.Equal(t, "pending_approval", claimed.Status)

	// Validation is admin-only
	rec = env.do(t, http.MethodPost, "/v1/swaps/"+posted.ID+"/validate", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Validate
	rec = env.do(t, http.MethodPost, "/v1/swaps/"+posted.ID+"/validate", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	validation := decodeBody[models.SwapValidationResult](t, rec)
	assert.Equal(t, "pilot", validation.Role)
	assert.Empty(t, validation.Conflicts)

	// Approve
	rec = env.do(t, http.MethodPost, "/v1/swaps/"+posted.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	approved := decodeBody[models.Swap](t, rec)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "usr_admin", approved.DecidedBy)

	// Crew actually exchanged
	fl1, err := env.flights.Get(ctx, "flt_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_bob"}, fl1.PilotIDs)

	// Terminal swaps cannot be decided again
	rec = env.do(t, http.MethodPost, "/v1/swaps/"+posted.ID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_SwapErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	aliceToken := env.token(t, &user.User{ID: "usr_alice"})

	t.Run("unknown swap", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/swaps/swp_missing", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("posting a flight you are not on", func(t *testing.T) {
		require.NoError(t, env.flights.Create(ctx, &flight.Flight{
			ID:                 "flt_1",
			Number:             "SR101",
			DepartureAirport:   "AMS",
			ArrivalAirport:     "LHR",
			ScheduledDeparture: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			ScheduledArrival:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			PilotIDs:           []string{"usr_other"},
			CrewIDs:            []string{"usr_other"},
		}))

		rec := env.do(t, http.MethodPost, "/v1/swaps", aliceToken, models.SwapCreateRequest{FlightID: "flt_1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
