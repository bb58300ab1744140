package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/flight"
)

// SweepJob reconciles flight crew assignments with the derived calendar
// entries. Swap approvals keep the two in step transactionally; the sweep
// catches drift from manual roster edits or partial imports.
type SweepJob struct {
	config     SweepConfig
	flights    flight.Repository
	activities activity.Repository
	logger     zerolog.Logger
}

// SweepJobConfig holds configuration for creating a sweep job.
type SweepJobConfig struct {
	Config     SweepConfig
	Flights    flight.Repository
	Activities activity.Repository
	Logger     zerolog.Logger
}

// NewSweepJob creates a new roster sweep job.
func NewSweepJob(cfg SweepJobConfig) *SweepJob {
	return &SweepJob{
		config:     cfg.Config,
		flights:    cfg.Flights,
		activities: cfg.Activities,
		logger:     cfg.Logger,
	}
}

// SweepResult summarizes a sweep run.
type SweepResult struct {
	Duration time.Duration

	// FlightsChecked is the number of flights inspected.
	FlightsChecked int

	// CrewChecked is the number of crew assignments inspected.
	CrewChecked int

	// Missing counts crew assignments with no matching calendar entry.
	Missing int

	// Repaired counts missing entries that were created.
	Repaired int

	// Errors counts lookups or writes that failed.
	Errors int
}

// Run executes one sweep over the scheduled flights.
func (j *SweepJob) Run(ctx context.Context) SweepResult {
	start := time.Now()
	result := SweepResult{}

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	listed, err := j.flights.List(ctx, flight.ListOptions{Limit: j.config.FlightLimit})
	if err != nil {
		j.logger.Error().Err(err).Msg("sweep: listing flights failed")
		result.Errors++
		result.Duration = time.Since(start)
		return result
	}

	for _, f := range listed.Items {
		result.FlightsChecked++
		for _, userID := range f.CrewIDs {
			result.CrewChecked++

			ok, err := j.hasEntry(ctx, userID, f.ID)
			if err != nil {
				j.logger.Error().Err(err).
					Str("user_id", userID).
					Str("flight_id", f.ID).
					Msg("sweep: activity lookup failed")
				result.Errors++
				continue
			}
			if ok {
				continue
			}

			result.Missing++
			j.logger.Warn().
				Str("user_id", userID).
				Str("flight_id", f.ID).
				Str("flight_number", f.Number).
				Msg("sweep: crew member has no calendar entry")

			if !j.config.Repair {
				continue
			}

			if err := j.createEntry(ctx, userID, f); err != nil {
				j.logger.Error().Err(err).
					Str("user_id", userID).
					Str("flight_id", f.ID).
					Msg("sweep: repair failed")
				result.Errors++
				continue
			}
			result.Repaired++
		}
	}

	result.Duration = time.Since(start)

	j.logger.Info().
		Int("flights_checked", result.FlightsChecked).
		Int("crew_checked", result.CrewChecked).
		Int("missing", result.Missing).
		Int("repaired", result.Repaired).
		Int("errors", result.Errors).
		Dur("duration", result.Duration).
		Msg("roster sweep completed")

	return result
}

func (j *SweepJob) hasEntry(ctx context.Context, userID, flightID string) (bool, error) {
	entries, err := j.activities.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, a := range entries {
		if a.FlightID == flightID {
			return true, nil
		}
	}
	return false, nil
}

func (j *SweepJob) createEntry(ctx context.Context, userID string, f *flight.Flight) error {
	now := time.Now()
	return j.activities.Create(ctx, &activity.Activity{
		ID:               "act_" + uuid.New().String()[:22],
		UserID:           userID,
		FlightID:         f.ID,
		FlightNumber:     f.Number,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		StartsAt:         f.ScheduledDeparture,
		EndsAt:           f.ScheduledArrival,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}
