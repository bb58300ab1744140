package activity

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// NewInMemoryRepository creates a new in-memory activity repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		activities: make(map[string]*Activity),
	}
}

// ListForUser retrieves all activities for a user ordered by start time.
func (r *InMemoryRepository) ListForUser(_ context.Context, userID string) ([]*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activities []*Activity
	for _, a := range r.activities {
		if a.UserID == userID {
			activities = append(activities, a.Clone())
		}
	}

	sortByStart(activities)
	return activities, nil
}

// OverlappingForUser retrieves a user's activities overlapping the window,
// excluding entries for the given flight.
func (r *InMemoryRepository) OverlappingForUser(_ context.Context, userID string, start, end time.Time, excludeFlightID string) ([]*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activities []*Activity
	for _, a := range r.activities {
		if a.UserID != userID || a.FlightID == excludeFlightID {
			continue
		}
		if a.Overlaps(start, end) {
			activities = append(activities, a.Clone())
		}
	}

	sortByStart(activities)
	return activities, nil
}

// Create creates a new activity.
func (r *InMemoryRepository) Create(_ context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[a.ID] = a.Clone()
	return nil
}

// Repoint atomically applies swap approval changes to stored activities. It
// exists so the in-memory store can mirror the transactional Postgres path;
// see the swap package for the production transaction.
func (r *InMemoryRepository) Repoint(userID, fromFlightID string, apply func(a *Activity)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.activities {
		if a.UserID == userID && a.FlightID == fromFlightID {
			apply(a)
			a.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

func sortByStart(activities []*Activity) {
	sort.Slice(activities, func(i, j int) bool {
		if activities[i].StartsAt.Equal(activities[j].StartsAt) {
			return activities[i].ID < activities[j].ID
		}
		return activities[i].StartsAt.Before(activities[j].StartsAt)
	})
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
