package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyrota/skyrota/internal/flight"
)

// swapColumns is the column list shared by every proposal query.
const swapColumns = `
	id, initiating_user_id, initiating_flight_id,
	requesting_user_id, requesting_flight_id,
	note, status, decided_by, decided_at, created_at, updated_at
`

// lockedFlightColumns is the subset of flight columns the approval
// transaction reads: the crew roster plus the schedule metadata the calendar
// repoint copies over.
const lockedFlightColumns = `
	id, number, departure_airport, arrival_airport,
	scheduled_departure, scheduled_arrival,
	purser_id, pilot_ids, cabin_crew_ids, instructor_ids, trainee_ids, crew_ids
`

// PostgresStore is a PostgreSQL implementation of Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL swap store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get retrieves a proposal by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Proposal, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE id = $1`

	var p Proposal
	err := s.pool.QueryRow(ctx, query, id).Scan(scanTargets(&p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}

	return &p, nil
}

// List retrieves proposals ordered by creation time, newest first.
func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*Proposal, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + swapColumns + `
		FROM swaps
		WHERE ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit, string(opts.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []*Proposal
	for rows.Next() {
		var p Proposal
		if err := rows.Scan(scanTargets(&p)...); err != nil {
			return nil, err
		}
		proposals = append(proposals, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return proposals, nil
}

// Create creates a new proposal.
func (s *PostgresStore) Create(ctx context.Context, p *Proposal) error {
	query := `
		INSERT INTO swaps (
			id, initiating_user_id, initiating_flight_id,
			requesting_user_id, requesting_flight_id,
			note, status, decided_by, decided_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.InitiatingUserID, p.InitiatingFlightID,
		p.RequestingUserID, p.RequestingFlightID,
		p.Note, p.Status, p.DecidedBy, p.DecidedAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Update updates an existing proposal.
func (s *PostgresStore) Update(ctx context.Context, p *Proposal) error {
	query := `
		UPDATE swaps SET
			requesting_user_id = $2,
			requesting_flight_id = $3,
			note = $4,
			status = $5,
			decided_by = $6,
			decided_at = $7,
			updated_at = $8
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		p.ID, p.RequestingUserID, p.RequestingFlightID,
		p.Note, p.Status, p.DecidedBy, p.DecidedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrSwapNotFound
	}

	return nil
}

// Approve applies an approval change inside a single transaction. The swap
// row and both flight rows are locked and re-read first, so concurrent
// approvals serialize and a roster edit committed after the admin's
// validation is swapped on rather than overwritten; any failure aborts the
// transaction and leaves every document untouched.
func (s *PostgresStore) Approve(ctx context.Context, change *ApprovalChange) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approval transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := change.Proposal
	if err := s.lockPending(ctx, tx, p.ID); err != nil {
		return err
	}

	initiating, requesting, err := lockFlightPair(ctx, tx, p.InitiatingFlightID, p.RequestingFlightID)
	if err != nil {
		return err
	}

	if err := applyExchange(change, initiating, requesting); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE swaps SET status = $2, decided_by = $3, decided_at = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Status, p.DecidedBy, p.DecidedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update swap %s: %w", p.ID, err)
	}

	for _, f := range []*flight.Flight{initiating, requesting} {
		_, err := tx.Exec(ctx, `
			UPDATE flights SET
				purser_id = $2,
				pilot_ids = $3,
				cabin_crew_ids = $4,
				instructor_ids = $5,
				trainee_ids = $6,
				crew_ids = $7,
				updated_at = $8
			WHERE id = $1
		`, f.ID, f.PurserID, f.PilotIDs, f.CabinCrewIDs, f.InstructorIDs, f.TraineeIDs, f.CrewIDs, f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update flight %s: %w", f.ID, err)
		}
	}

	moves := []struct {
		userID       string
		fromFlightID string
		to           *flight.Flight
	}{
		{p.InitiatingUserID, p.InitiatingFlightID, requesting},
		{p.RequestingUserID, p.RequestingFlightID, initiating},
	}
	for _, m := range moves {
		_, err := tx.Exec(ctx, `
			UPDATE activities SET
				flight_id = $3,
				flight_number = $4,
				departure_airport = $5,
				arrival_airport = $6,
				starts_at = $7,
				ends_at = $8,
				updated_at = now()
			WHERE user_id = $1 AND flight_id = $2
		`, m.userID, m.fromFlightID,
			m.to.ID, m.to.Number, m.to.DepartureAirport, m.to.ArrivalAirport,
			m.to.ScheduledDeparture, m.to.ScheduledArrival)
		if err != nil {
			return fmt.Errorf("move activity for user %s: %w", m.userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit approval transaction: %w", err)
	}

	return nil
}

// lockPending locks the swap row and verifies it is still awaiting approval.
func (s *PostgresStore) lockPending(ctx context.Context, tx pgx.Tx, swapID string) error {
	var status Status
	err := tx.QueryRow(ctx, `SELECT status FROM swaps WHERE id = $1 FOR UPDATE`, swapID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSwapNotFound
		}
		return fmt.Errorf("lock swap %s: %w", swapID, err)
	}

	if status != StatusPendingApproval {
		return ErrNotPending
	}

	return nil
}

// lockFlightPair reads both flight rows under FOR UPDATE. Rows are locked in
// id order so two approvals touching the same flights cannot deadlock.
func lockFlightPair(ctx context.Context, tx pgx.Tx, initiatingID, requestingID string) (*flight.Flight, *flight.Flight, error) {
	first, second := initiatingID, requestingID
	if second < first {
		first, second = second, first
	}

	byID := make(map[string]*flight.Flight, 2)
	for _, id := range []string{first, second} {
		f, err := lockFlight(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		byID[id] = f
	}

	return byID[initiatingID], byID[requestingID], nil
}

func lockFlight(ctx context.Context, tx pgx.Tx, id string) (*flight.Flight, error) {
	query := `SELECT ` + lockedFlightColumns + ` FROM flights WHERE id = $1 FOR UPDATE`

	var f flight.Flight
	err := tx.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Number, &f.DepartureAirport, &f.ArrivalAirport,
		&f.ScheduledDeparture, &f.ScheduledArrival,
		&f.PurserID, &f.PilotIDs, &f.CabinCrewIDs, &f.InstructorIDs, &f.TraineeIDs, &f.CrewIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, flight.ErrFlightNotFound
		}
		return nil, fmt.Errorf("lock flight %s: %w", id, err)
	}

	return &f, nil
}

// scanTargets returns scan destinations matching swapColumns order.
func scanTargets(p *Proposal) []interface{} {
	return []interface{}{
		&p.ID,
		&p.InitiatingUserID,
		&p.InitiatingFlightID,
		&p.RequestingUserID,
		&p.RequestingFlightID,
		&p.Note,
		&p.Status,
		&p.DecidedBy,
		&p.DecidedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

// Ensure PostgresStore implements Store interface.
var _ Store = (*PostgresStore)(nil)
