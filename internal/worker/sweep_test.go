package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/flight"
)

func newSweepFixture() (*SweepJob, *flight.InMemoryRepository, *activity.InMemoryRepository) {
	flights := flight.NewInMemoryRepository()
	activities := activity.NewInMemoryRepository()

	job := NewSweepJob(SweepJobConfig{
		Config:     DefaultSweepConfig(),
		Flights:    flights,
		Activities: activities,
		Logger:     zerolog.Nop(),
	})

	return job, flights, activities
}

func sweepTestFlight(id string, crew []string) *flight.Flight {
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return &flight.Flight{
		ID:                 id,
		Number:             "SR101",
		DepartureAirport:   "AMS",
		ArrivalAirport:     "LHR",
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(2 * time.Hour),
		PilotIDs:           crew,
		CrewIDs:            crew,
	}
}

func TestSweepRepairsMissingEntries(t *testing.T) {
	ctx := context.Background()
	job, flights, activities := newSweepFixture()

	f := sweepTestFlight("flt_1", []string{"usr_alice", "usr_bob"})
	require.NoError(t, flights.Create(ctx, f))

	// Only alice has a calendar entry.
	require.NoError(t, activities.Create(ctx, &activity.Activity{
		ID:       "act_1",
		UserID:   "usr_alice",
		FlightID: "flt_1",
		StartsAt: f.ScheduledDeparture,
		EndsAt:   f.ScheduledArrival,
	}))

	result := job.Run(ctx)

	assert.Equal(t, 1, result.FlightsChecked)
	assert.Equal(t, 2, result.CrewChecked)
	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, 1, result.Repaired)
	assert.Equal(t, 0, result.Errors)

	entries, err := activities.ListForUser(ctx, "usr_bob")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "flt_1", entries[0].FlightID)
	assert.Equal(t, "SR101", entries[0].FlightNumber)
	assert.Equal(t, f.ScheduledDeparture, entries[0].StartsAt)
}

func TestSweepReportsWithoutRepair(t *testing.T) {
	ctx := context.Background()
	job, flights, activities := newSweepFixture()
	job.config.Repair = false

	require.NoError(t, flights.Create(ctx, sweepTestFlight("flt_1", []string{"usr_alice"})))

	result := job.Run(ctx)

	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, 0, result.Repaired)

	entries, err := activities.ListForUser(ctx, "usr_alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSweepCleanRoster(t *testing.T) {
	ctx := context.Background()
	job, flights, activities := newSweepFixture()

	f := sweepTestFlight("flt_1", []string{"usr_alice"})
	require.NoError(t, flights.Create(ctx, f))
	require.NoError(t, activities.Create(ctx, &activity.Activity{
		ID:       "act_1",
		UserID:   "usr_alice",
		FlightID: "flt_1",
		StartsAt: f.ScheduledDeparture,
		EndsAt:   f.ScheduledArrival,
	}))

	result := job.Run(ctx)

	assert.Equal(t, 0, result.Missing)
	assert.Equal(t, 0, result.Repaired)
	assert.Equal(t, 0, result.Errors)
}
