package flight

import "context"

// ListOptions contains options for listing flights.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing flights.
type ListResult struct {
	Items      []*Flight
	NextCursor string
}

// Repository defines the interface for flight data persistence.
type Repository interface {
	// Get retrieves a flight by ID.
	// Returns ErrFlightNotFound if no such flight exists.
	Get(ctx context.Context, id string) (*Flight, error)

	// List retrieves flights ordered by scheduled departure with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Create creates a new flight.
	Create(ctx context.Context, flight *Flight) error

	// Update updates an existing flight.
	Update(ctx context.Context, flight *Flight) error
}
