package flight

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	flights map[string]*Flight
}

// NewInMemoryRepository creates a new in-memory flight repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		flights: make(map[string]*Flight),
	}
}

// Get retrieves a flight by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flights[id]
	if !ok {
		return nil, ErrFlightNotFound
	}

	return f.Clone(), nil
}

// List retrieves flights ordered by scheduled departure with pagination.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var flights []*Flight
	for _, f := range r.flights {
		flights = append(flights, f.Clone())
	}

	sort.Slice(flights, func(i, j int) bool {
		if flights[i].ScheduledDeparture.Equal(flights[j].ScheduledDeparture) {
			return flights[i].ID < flights[j].ID
		}
		return flights[i].ScheduledDeparture.Before(flights[j].ScheduledDeparture)
	})

	if opts.Cursor != "" {
		filtered := flights[:0]
		for _, f := range flights {
			if f.ID > opts.Cursor {
				filtered = append(filtered, f)
			}
		}
		flights = filtered
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{Items: flights}
	if len(flights) > limit {
		result.Items = flights[:limit]
		result.NextCursor = flights[limit-1].ID
	}

	return result, nil
}

// Create creates a new flight.
func (r *InMemoryRepository) Create(_ context.Context, f *Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flights[f.ID] = f.Clone()
	return nil
}

// Update updates an existing flight.
func (r *InMemoryRepository) Update(_ context.Context, f *Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flights[f.ID]; !ok {
		return ErrFlightNotFound
	}

	r.flights[f.ID] = f.Clone()
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
