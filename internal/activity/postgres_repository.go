package activity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// activityColumns is the column list shared by every activity query.
const activityColumns = `
	id, user_id, flight_id, flight_number,
	departure_airport, arrival_airport,
	starts_at, ends_at, created_at, updated_at
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL activity repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListForUser retrieves all activities for a user ordered by start time.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE user_id = $1
		ORDER BY starts_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID, &a.UserID, &a.FlightID, &a.FlightNumber,
			&a.DepartureAirport, &a.ArrivalAirport,
			&a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}

// OverlappingForUser retrieves a user's activities overlapping the window,
// excluding entries for the given flight.
func (r *PostgresRepository) OverlappingForUser(ctx context.Context, userID string, start, end time.Time, excludeFlightID string) ([]*Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE user_id = $1
		  AND flight_id <> $2
		  AND starts_at < $4
		  AND ends_at > $3
		ORDER BY starts_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, excludeFlightID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID, &a.UserID, &a.FlightID, &a.FlightNumber,
			&a.DepartureAirport, &a.ArrivalAirport,
			&a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}

// Create creates a new activity.
func (r *PostgresRepository) Create(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activities (
			id, user_id, flight_id, flight_number,
			departure_airport, arrival_airport,
			starts_at, ends_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.FlightID, a.FlightNumber,
		a.DepartureAirport, a.ArrivalAirport,
		a.StartsAt, a.EndsAt, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
