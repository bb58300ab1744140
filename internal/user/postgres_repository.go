package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a user by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, admin, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, admin, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(ctx, query, email)
}

// scanUser scans a user from a query result.
func (r *PostgresRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*User, error) {
	var u User

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Admin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// Create creates a new user.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Admin, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
