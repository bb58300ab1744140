package swap

import (
	"context"
	"sort"
	"sync"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/flight"
)

// InMemoryStore is an in-memory implementation of Store.
// This is intended for testing. Production should use PostgresStore.
//
// Approve reads both flights fresh under the store lock and stages every
// write before touching the backing repositories, mirroring the row locks
// the Postgres transaction takes: a roster edit committed before the
// approval is swapped on, and a failure injected through
// SetApplyHookForTest leaves flights and activities exactly as they were.
type InMemoryStore struct {
	mu        sync.RWMutex
	proposals map[string]*Proposal

	flights    *flight.InMemoryRepository
	activities *activity.InMemoryRepository

	applyHook func(f *flight.Flight) error
}

// NewInMemoryStore creates a new in-memory swap store backed by the given
// flight and activity repositories.
func NewInMemoryStore(flights *flight.InMemoryRepository, activities *activity.InMemoryRepository) *InMemoryStore {
	return &InMemoryStore{
		proposals:  make(map[string]*Proposal),
		flights:    flights,
		activities: activities,
	}
}

// SetApplyHookForTest installs a hook invoked once per staged flight while an
// approval is being applied. Returning an error aborts the approval before
// any write lands.
func (s *InMemoryStore) SetApplyHookForTest(hook func(f *flight.Flight) error) {
	s.applyHook = hook
}

// Get retrieves a proposal by ID.
func (s *InMemoryStore) Get(_ context.Context, id string) (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrSwapNotFound
	}

	return p.Clone(), nil
}

// List retrieves proposals ordered by creation time, newest first.
func (s *InMemoryStore) List(_ context.Context, opts ListOptions) ([]*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var proposals []*Proposal
	for _, p := range s.proposals {
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		proposals = append(proposals, p.Clone())
	}

	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].ID > proposals[j].ID
		}
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(proposals) > limit {
		proposals = proposals[:limit]
	}

	return proposals, nil
}

// Create creates a new proposal.
func (s *InMemoryStore) Create(_ context.Context, p *Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proposals[p.ID] = p.Clone()
	return nil
}

// Update updates an existing proposal.
func (s *InMemoryStore) Update(_ context.Context, p *Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proposals[p.ID]; !ok {
		return ErrSwapNotFound
	}

	s.proposals[p.ID] = p.Clone()
	return nil
}

// Approve applies an approval change all-or-nothing.
func (s *InMemoryStore) Approve(ctx context.Context, change *ApprovalChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := change.Proposal
	current, ok := s.proposals[p.ID]
	if !ok {
		return ErrSwapNotFound
	}
	if current.Status != StatusPendingApproval {
		return ErrNotPending
	}

	// Read both rosters fresh and re-resolve the roles on them, the same
	// re-validation the Postgres transaction performs after locking the rows.
	initiating, err := s.flights.Get(ctx, p.InitiatingFlightID)
	if err != nil {
		return err
	}
	requesting, err := s.flights.Get(ctx, p.RequestingFlightID)
	if err != nil {
		return err
	}

	if err := applyExchange(change, initiating, requesting); err != nil {
		return err
	}

	// Stage: run the test hook for every flight before anything is written.
	staged := []*flight.Flight{initiating, requesting}
	for _, f := range staged {
		if s.applyHook != nil {
			if err := s.applyHook(f); err != nil {
				return err
			}
		}
	}

	for _, f := range staged {
		if err := s.flights.Update(ctx, f); err != nil {
			return err
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
		to := m.to
		s.activities.Repoint(m.userID, m.fromFlightID, func(a *activity.Activity) {
			a.FlightID = to.ID
			a.FlightNumber = to.Number
			a.DepartureAirport = to.DepartureAirport
			a.ArrivalAirport = to.ArrivalAirport
			a.StartsAt = to.ScheduledDeparture
			a.EndsAt = to.ScheduledArrival
		})
	}

	s.proposals[p.ID] = p.Clone()
	return nil
}

// Ensure InMemoryStore implements Store interface.
var _ Store = (*InMemoryStore)(nil)
