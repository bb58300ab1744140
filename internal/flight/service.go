package flight

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/api/models"
)

// iataRegex validates IATA airport codes.
var iataRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// AirportDirectory resolves airport metadata. Implementations may call an
// external provider; lookups are best-effort and must be safe to skip.
type AirportDirectory interface {
	// UTCOffset returns the current UTC offset in minutes for an airport.
	UTCOffset(ctx context.Context, iata string) (int, error)
}

// Service provides flight operations.
type Service struct {
	repo     Repository
	airports AirportDirectory
	logger   zerolog.Logger
}

// ServiceConfig holds configuration for the flight service.
type ServiceConfig struct {
	Repository Repository

	// Airports is optional; when nil, flights are stored without time zone
	// enrichment.
	Airports AirportDirectory

	Logger zerolog.Logger
}

// NewService creates a new flight service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repository,
		airports: cfg.Airports,
		logger:   cfg.Logger,
	}
}

// List retrieves flights ordered by scheduled departure.
func (s *Service) List(ctx context.Context, limit int, cursor string) (*models.PagedFlights, error) {
	result, err := s.repo.List(ctx, ListOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.Flight, 0, len(result.Items))
	for _, f := range result.Items {
		items = append(items, toAPIFlight(f))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedFlights{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a flight by ID.
func (s *Service) Get(ctx context.Context, flightID string) (*models.Flight, error) {
	f, err := s.repo.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}

	result := toAPIFlight(f)
	return &result, nil
}

// Create validates and stores a new flight, enriching it with airport time
// zone offsets when the directory is available.
func (s *Service) Create(ctx context.Context, input *models.FlightCreateRequest) (*models.Flight, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	f := &Flight{
		ID:                 "flt_" + uuid.New().String()[:22],
		Number:             input.Number,
		DepartureAirport:   input.DepartureAirport,
		ArrivalAirport:     input.ArrivalAirport,
		ScheduledDeparture: input.ScheduledDeparture.Time(),
		ScheduledArrival:   input.ScheduledArrival.Time(),
		PurserID:           input.Crew.PurserID,
		PilotIDs:           append([]string(nil), input.Crew.PilotIDs...),
		CabinCrewIDs:       append([]string(nil), input.Crew.CabinCrewIDs...),
		InstructorIDs:      append([]string(nil), input.Crew.InstructorIDs...),
		TraineeIDs:         append([]string(nil), input.Crew.TraineeIDs...),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.CrewIDs = aggregateCrewIDs(f)

	s.enrichTimeZones(ctx, f)

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	result := toAPIFlight(f)
	return &result, nil
}

// enrichTimeZones looks up UTC offsets for both airports. Failures are logged
// and skipped; a missing offset never blocks flight creation.
func (s *Service) enrichTimeZones(ctx context.Context, f *Flight) {
	if s.airports == nil {
		return
	}

	if offset, err := s.airports.UTCOffset(ctx, f.DepartureAirport); err != nil {
		s.logger.Warn().Err(err).
			Str("airport", f.DepartureAirport).
			Msg("departure airport lookup failed")
	} else {
		f.DepartureUTCOffsetMinutes = &offset
	}

	if offset, err := s.airports.UTCOffset(ctx, f.ArrivalAirport); err != nil {
		s.logger.Warn().Err(err).
			Str("airport", f.ArrivalAirport).
			Msg("arrival airport lookup failed")
	} else {
		f.ArrivalUTCOffsetMinutes = &offset
	}
}

// validateCreateInput validates the create flight input.
func validateCreateInput(input *models.FlightCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Number == "" {
		errs = append(errs, models.FieldError{Field: "number", Message: "is required"})
	}

	if !iataRegex.MatchString(input.DepartureAirport) {
		errs = append(errs, models.FieldError{Field: "departureAirport", Message: "must be a three-letter IATA code"})
	}
	if !iataRegex.MatchString(input.ArrivalAirport) {
		errs = append(errs, models.FieldError{Field: "arrivalAirport", Message: "must be a three-letter IATA code"})
	}

	dep := input.ScheduledDeparture.Time()
	arr := input.ScheduledArrival.Time()
	if dep.IsZero() {
		errs = append(errs, models.FieldError{Field: "scheduledDeparture", Message: "is required"})
	}
	if arr.IsZero() {
		errs = append(errs, models.FieldError{Field: "scheduledArrival", Message: "is required"})
	} else if !dep.IsZero() && !arr.After(dep) {
		errs = append(errs, models.FieldError{Field: "scheduledArrival", Message: "must be after scheduledDeparture"})
	}

	if dup := firstDuplicateCrewID(input.Crew); dup != "" {
		errs = append(errs, models.FieldError{Field: "crew", Message: "crew member " + dup + " is assigned more than one role"})
	}

	return errs
}

// firstDuplicateCrewID returns the first crew id appearing in more than one
// role field, or empty.
func firstDuplicateCrewID(crew models.FlightCrew) string {
	seen := make(map[string]bool)
	check := func(ids ...string) string {
		for _, id := range ids {
			if id == "" {
				continue
			}
			if seen[id] {
				return id
			}
			seen[id] = true
		}
		return ""
	}

	for _, ids := range [][]string{
		{crew.PurserID},
		crew.PilotIDs,
		crew.CabinCrewIDs,
		crew.InstructorIDs,
		crew.TraineeIDs,
	} {
		if dup := check(ids...); dup != "" {
			return dup
		}
	}
	return ""
}

// aggregateCrewIDs builds the denormalized crew list from the role fields.
func aggregateCrewIDs(f *Flight) []string {
	ids := make([]string, 0, 1+len(f.PilotIDs)+len(f.CabinCrewIDs)+len(f.InstructorIDs)+len(f.TraineeIDs))
	if f.PurserID != "" {
		ids = append(ids, f.PurserID)
	}
	ids = append(ids, f.PilotIDs...)
	ids = append(ids, f.CabinCrewIDs...)
	ids = append(ids, f.InstructorIDs...)
	ids = append(ids, f.TraineeIDs...)
	return ids
}

// toAPIFlight converts a domain Flight to an API Flight.
func toAPIFlight(f *Flight) models.Flight {
	return models.Flight{
		ID:                        f.ID,
		Number:                    f.Number,
		DepartureAirport:          f.DepartureAirport,
		ArrivalAirport:            f.ArrivalAirport,
		ScheduledDeparture:        models.Timestamp(f.ScheduledDeparture),
		ScheduledArrival:          models.Timestamp(f.ScheduledArrival),
		DepartureUTCOffsetMinutes: f.DepartureUTCOffsetMinutes,
		ArrivalUTCOffsetMinutes:   f.ArrivalUTCOffsetMinutes,
		Crew: models.FlightCrew{
			PurserID:      f.PurserID,
			PilotIDs:      f.PilotIDs,
			CabinCrewIDs:  f.CabinCrewIDs,
			InstructorIDs: f.InstructorIDs,
			TraineeIDs:    f.TraineeIDs,
		},
		CreatedAt: models.Timestamp(f.CreatedAt),
		UpdatedAt: models.Timestamp(f.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
