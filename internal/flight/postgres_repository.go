package flight

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// flightColumns is the column list shared by every flight query.
const flightColumns = `
	id, number, departure_airport, arrival_airport,
	scheduled_departure, scheduled_arrival,
	departure_utc_offset_minutes, arrival_utc_offset_minutes,
	purser_id, pilot_ids, cabin_crew_ids, instructor_ids, trainee_ids, crew_ids,
	created_at, updated_at
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL flight repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a flight by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`

	var f Flight
	err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&f)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	return &f, nil
}

// List retrieves flights ordered by scheduled departure with pagination.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE ($2 = '' OR id > $2)
		ORDER BY scheduled_departure ASC, id ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, fetchLimit, opts.Cursor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []*Flight
	for rows.Next() {
		var f Flight
		if err := rows.Scan(scanTargets(&f)...); err != nil {
			return nil, err
		}
		flights = append(flights, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: flights}
	if len(flights) > limit {
		result.Items = flights[:limit]
		result.NextCursor = flights[limit-1].ID
	}

	return result, nil
}

// Create creates a new flight.
func (r *PostgresRepository) Create(ctx context.Context, f *Flight) error {
	query := `
		INSERT INTO flights (
			id, number, departure_airport, arrival_airport,
			scheduled_departure, scheduled_arrival,
			departure_utc_offset_minutes, arrival_utc_offset_minutes,
			purser_id, pilot_ids, cabin_crew_ids, instructor_ids, trainee_ids, crew_ids,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.Number,
		f.DepartureAirport,
		f.ArrivalAirport,
		f.ScheduledDeparture,
		f.ScheduledArrival,
		f.DepartureUTCOffsetMinutes,
		f.ArrivalUTCOffsetMinutes,
		f.PurserID,
		f.PilotIDs,
		f.CabinCrewIDs,
		f.InstructorIDs,
		f.TraineeIDs,
		f.CrewIDs,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return err
}

// Update updates an existing flight.
func (r *PostgresRepository) Update(ctx context.Context, f *Flight) error {
	query := `
		UPDATE flights SET
			number = $2,
			departure_airport = $3,
			arrival_airport = $4,
			scheduled_departure = $5,
			scheduled_arrival = $6,
			departure_utc_offset_minutes = $7,
			arrival_utc_offset_minutes = $8,
			purser_id = $9,
			pilot_ids = $10,
			cabin_crew_ids = $11,
			instructor_ids = $12,
			trainee_ids = $13,
			crew_ids = $14,
			updated_at = $15
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		f.ID,
		f.Number,
		f.DepartureAirport,
		f.ArrivalAirport,
		f.ScheduledDeparture,
		f.ScheduledArrival,
		f.DepartureUTCOffsetMinutes,
		f.ArrivalUTCOffsetMinutes,
		f.PurserID,
		f.PilotIDs,
		f.CabinCrewIDs,
		f.InstructorIDs,
		f.TraineeIDs,
		f.CrewIDs,
		f.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrFlightNotFound
	}

	return nil
}

// scanTargets returns scan destinations matching flightColumns order.
func scanTargets(f *Flight) []interface{} {
	return []interface{}{
		&f.ID,
		&f.Number,
		&f.DepartureAirport,
		&f.ArrivalAirport,
		&f.ScheduledDeparture,
		&f.ScheduledArrival,
		&f.DepartureUTCOffsetMinutes,
		&f.ArrivalUTCOffsetMinutes,
		&f.PurserID,
		&f.PilotIDs,
		&f.CabinCrewIDs,
		&f.InstructorIDs,
		&f.TraineeIDs,
		&f.CrewIDs,
		&f.CreatedAt,
		&f.UpdatedAt,
	}
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
