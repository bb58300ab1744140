package flight_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/flight"
)

// mockDirectory is a mock airport directory for testing.
type mockDirectory struct {
	offsets map[string]int
	err     error
}

func (m *mockDirectory) UTCOffset(_ context.Context, iata string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	offset, ok := m.offsets[iata]
	if !ok {
		return 0, errors.New("unknown airport")
	}
	return offset, nil
}

func newTestService(airports flight.AirportDirectory) (*flight.Service, *flight.InMemoryRepository) {
	repo := flight.NewInMemoryRepository()
	svc := flight.NewService(flight.ServiceConfig{
		Repository: repo,
		Airports:   airports,
		Logger:     zerolog.Nop(),
	})
	return svc, repo
}

func validCreateRequest() *models.FlightCreateRequest {
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return &models.FlightCreateRequest{
		Number:             "SR101",
		DepartureAirport:   "AMS",
		ArrivalAirport:     "LHR",
		ScheduledDeparture: models.Timestamp(dep),
		ScheduledArrival:   models.Timestamp(dep.Add(90 * time.Minute)),
		Crew: models.FlightCrew{
			PurserID:     "usr_purser",
			PilotIDs:     []string{"usr_p1", "usr_p2"},
			CabinCrewIDs: []string{"usr_c1"},
		},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(nil)

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.ID, "flt_")
	assert.Equal(t, "SR101", created.Number)
	assert.Equal(t, []string{"usr_p1", "usr_p2"}, created.Crew.PilotIDs)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_purser", "usr_p1", "usr_p2", "usr_c1"}, stored.CrewIDs)
	assert.Nil(t, stored.DepartureUTCOffsetMinutes)
}

func TestService_CreateEnrichesTimeZones(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(&mockDirectory{offsets: map[string]int{
		"AMS": 120,
		"LHR": 60,
	}})

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DepartureUTCOffsetMinutes)
	assert.Equal(t, 120, *stored.DepartureUTCOffsetMinutes)
	require.NotNil(t, stored.ArrivalUTCOffsetMinutes)
	assert.Equal(t, 60, *stored.ArrivalUTCOffsetMinutes)
}

func TestService_CreateDirectoryFailureIsNonBlocking(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(&mockDirectory{err: errors.New("directory down")})

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DepartureUTCOffsetMinutes)
	assert.Nil(t, stored.ArrivalUTCOffsetMinutes)
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	tests := []struct {
		name   string
		mutate func(*models.FlightCreateRequest)
		field  string
	}{
		{
			name:   "missing number",
			mutate: func(r *models.FlightCreateRequest) { r.Number = "" },
			field:  "number",
		},
		{
			name:   "lowercase departure airport",
			mutate: func(r *models.FlightCreateRequest) { r.DepartureAirport = "ams" },
			field:  "departureAirport",
		},
		{
			name:   "city name instead of IATA",
			mutate: func(r *models.FlightCreateRequest) { r.ArrivalAirport = "London" },
			field:  "arrivalAirport",
		},
		{
			name: "arrival before departure",
			mutate: func(r *models.FlightCreateRequest) {
				r.ScheduledArrival = models.Timestamp(r.ScheduledDeparture.Time().Add(-time.Hour))
			},
			field: "scheduledArrival",
		},
		{
			name: "crew member in two roles",
			mutate: func(r *models.FlightCreateRequest) {
				r.Crew.TraineeIDs = []string{"usr_p1"}
			},
			field: "crew",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(ctx, req)
			require.Error(t, err)

			var validationErr *flight.ValidationError
			require.ErrorAs(t, err, &validationErr)

			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestService_ListPagination(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(nil)

	base := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		dep := base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, repo.Create(ctx, &flight.Flight{
			ID:                 "flt_" + string(rune('a'+i)),
			Number:             "SR10" + string(rune('1'+i)),
			DepartureAirport:   "AMS",
			ArrivalAirport:     "LHR",
			ScheduledDeparture: dep,
			ScheduledArrival:   dep.Add(2 * time.Hour),
		}))
	}

	page, err := svc.List(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Meta.Limit)
	require.NotNil(t, page.Meta.NextCursor)

	page, err = svc.List(ctx, 2, *page.Meta.NextCursor)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Meta.NextCursor)
}

func TestService_GetUnknownFlight(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Get(context.Background(), "flt_missing")
	assert.ErrorIs(t, err, flight.ErrFlightNotFound)
}
