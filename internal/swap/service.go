package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/activity"
	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/events"
	"github.com/skyrota/skyrota/internal/flight"
	"github.com/skyrota/skyrota/internal/user"
)

// Service provides swap operations.
type Service struct {
	store      Store
	flights    flight.Repository
	activities activity.Repository
	users      user.Repository
	publisher  events.Publisher
	logger     zerolog.Logger
}

// ServiceConfig holds configuration for the swap service.
type ServiceConfig struct {
	Store      Store
	Flights    flight.Repository
	Activities activity.Repository
	Users      user.Repository

	// Publisher is optional; when nil, decisions are not announced.
	Publisher events.Publisher

	Logger zerolog.Logger
}

// NewService creates a new swap service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:      cfg.Store,
		flights:    cfg.Flights,
		activities: cfg.Activities,
		users:      cfg.Users,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
	}
}

// List retrieves swap proposals, optionally filtered by status.
func (s *Service) List(ctx context.Context, limit int, status string) (*models.PagedSwaps, error) {
	proposals, err := s.store.List(ctx, ListOptions{Limit: limit, Status: Status(status)})
	if err != nil {
		return nil, fmt.Errorf("listing swaps: %w", err)
	}

	items := make([]models.Swap, 0, len(proposals))
	for _, p := range proposals {
		items = append(items, toAPISwap(p))
	}

	return &models.PagedSwaps{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// Get retrieves a single swap proposal.
func (s *Service) Get(ctx context.Context, swapID string) (*models.Swap, error) {
	p, err := s.store.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}

	out := toAPISwap(p)
	return &out, nil
}

// Create posts a new swap offer. The initiating user must hold a crew role
// on the flight they are offering.
func (s *Service) Create(ctx context.Context, userID string, input *models.SwapCreateRequest) (*models.Swap, error) {
	f, err := s.flights.Get(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	if _, ok := f.RoleOf(userID); !ok {
		return nil, ErrNotCrewMember
	}

	now := time.Now()
	p := &Proposal{
		ID:                 "swp_" + uuid.New().String()[:22],
		InitiatingUserID:   userID,
		InitiatingFlightID: input.FlightID,
		Note:               input.Note,
		Status:             StatusPosted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating swap: %w", err)
	}

	s.logger.Info().
		Str("swap_id", p.ID).
		Str("user_id", userID).
		Str("flight_id", input.FlightID).
		Msg("swap posted")

	out := toAPISwap(p)
	return &out, nil
}

// Claim attaches a second crew member to a posted proposal and moves it to
// pending approval. The claimant must hold the same role on their own flight
// as the initiator holds on theirs.
func (s *Service) Claim(ctx context.Context, swapID, userID string, input *models.SwapClaimRequest) (*models.Swap, error) {
	p, err := s.store.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPosted {
		return nil, ErrNotClaimable
	}
	if userID == p.InitiatingUserID {
		return nil, ErrSelfSwap
	}

	initiating, err := s.flights.Get(ctx, p.InitiatingFlightID)
	if err != nil {
		return nil, err
	}
	requesting, err := s.flights.Get(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	initiatingRole, ok := initiating.RoleOf(p.InitiatingUserID)
	if !ok {
		return nil, ErrNotCrewMember
	}
	claimantRole, ok := requesting.RoleOf(userID)
	if !ok {
		return nil, ErrNotCrewMember
	}
	if initiatingRole != claimantRole {
		return nil, ErrRoleMismatch
	}

	p.RequestingUserID = userID
	p.RequestingFlightID = input.FlightID
	p.Status = StatusPendingApproval
	p.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("claiming swap: %w", err)
	}

	s.logger.Info().
		Str("swap_id", p.ID).
		Str("user_id", userID).
		Str("flight_id", input.FlightID).
		Msg("swap claimed")

	out := toAPISwap(p)
	return &out, nil
}

// Validate checks a pending proposal for role and availability conflicts.
// A role mismatch is terminal and returns ErrRoleMismatch without running
// the availability check; schedule conflicts are reported as data so an
// administrator can still approve with eyes open.
func (s *Service) Validate(ctx context.Context, swapID string) (*models.SwapValidationResult, error) {
	p, err := s.store.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPendingApproval {
		return nil, ErrNotPending
	}

	pair, err := s.loadPair(ctx, p)
	if err != nil {
		return nil, err
	}

	role, err := pair.matchedRole()
	if err != nil {
		return nil, err
	}

	var conflicts []models.SwapConflict

	// Each user is checked against the window of the flight they would take
	// over, ignoring entries for the flight they vacate.
	c, err := s.conflictsFor(ctx, p.InitiatingUserID, pair.requesting, p.InitiatingFlightID)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, c...)

	c, err = s.conflictsFor(ctx, p.RequestingUserID, pair.initiating, p.RequestingFlightID)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, c...)

	result := &models.SwapValidationResult{
		Role:      string(role),
		Conflicts: conflicts,
	}
	if len(conflicts) > 0 {
		msg := conflictMessage(conflicts)
		result.ConflictMessage = &msg
	}

	return result, nil
}

// Approve finalizes a pending proposal: crew assignments are exchanged on
// both flights, each user's calendar entry is repointed, and the proposal is
// closed, all inside one transaction. The pre-check here only produces fast
// failures and the role the decision is recorded against; the store re-reads
// both flights and re-resolves the roles inside its transactional scope.
func (s *Service) Approve(ctx context.Context, swapID, decidedBy string) (*models.Swap, error) {
	p, err := s.store.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPendingApproval {
		return nil, ErrNotPending
	}

	pair, err := s.loadPair(ctx, p)
	if err != nil {
		return nil, err
	}

	role, err := pair.matchedRole()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = StatusApproved
	p.DecidedBy = decidedBy
	p.DecidedAt = &now
	p.UpdatedAt = now

	if err := s.store.Approve(ctx, &ApprovalChange{Proposal: p, Role: role}); err != nil {
		return nil, fmt.Errorf("approving swap: %w", err)
	}

	s.logger.Info().
		Str("swap_id", p.ID).
		Str("decided_by", decidedBy).
		Str("role", string(role)).
		Msg("swap approved")

	s.announce(ctx, events.TypeSwapApproved, p)

	out := toAPISwap(p)
	return &out, nil
}

// Reject closes a pending proposal without touching any flight.
func (s *Service) Reject(ctx context.Context, swapID, decidedBy, reason string) (*models.Swap, error) {
	p, err := s.store.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPendingApproval {
		return nil, ErrNotPending
	}

	now := time.Now()
	p.Status = StatusRejected
	p.DecidedBy = decidedBy
	p.DecidedAt = &now
	p.UpdatedAt = now

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("rejecting swap: %w", err)
	}

	s.logger.Info().
		Str("swap_id", p.ID).
		Str("decided_by", decidedBy).
		Str("reason", reason).
		Msg("swap rejected")

	s.announce(ctx, events.TypeSwapRejected, p)

	out := toAPISwap(p)
	return &out, nil
}

// flightPair holds both sides of a pending proposal.
type flightPair struct {
	proposal   *Proposal
	initiating *flight.Flight
	requesting *flight.Flight
}

func (s *Service) loadPair(ctx context.Context, p *Proposal) (*flightPair, error) {
	initiating, err := s.flights.Get(ctx, p.InitiatingFlightID)
	if err != nil {
		return nil, err
	}
	requesting, err := s.flights.Get(ctx, p.RequestingFlightID)
	if err != nil {
		return nil, err
	}
	return &flightPair{proposal: p, initiating: initiating, requesting: requesting}, nil
}

// matchedRole resolves both users' roles and requires them to be equal.
func (fp *flightPair) matchedRole() (flight.Role, error) {
	initiatingRole, ok := fp.initiating.RoleOf(fp.proposal.InitiatingUserID)
	if !ok {
		return "", ErrNotCrewMember
	}
	requestingRole, ok := fp.requesting.RoleOf(fp.proposal.RequestingUserID)
	if !ok {
		return "", ErrNotCrewMember
	}
	if initiatingRole != requestingRole {
		return "", ErrRoleMismatch
	}
	return initiatingRole, nil
}

// conflictsFor finds the user's existing duties overlapping the target
// flight's window, excluding the flight they would vacate.
func (s *Service) conflictsFor(ctx context.Context, userID string, target *flight.Flight, vacatingFlightID string) ([]models.SwapConflict, error) {
	overlapping, err := s.activities.OverlappingForUser(ctx, userID, target.ScheduledDeparture, target.ScheduledArrival, vacatingFlightID)
	if err != nil {
		return nil, fmt.Errorf("checking availability for user %s: %w", userID, err)
	}
	if len(overlapping) == 0 {
		return nil, nil
	}

	name := s.displayName(ctx, userID)

	conflicts := make([]models.SwapConflict, 0, len(overlapping))
	for _, a := range overlapping {
		conflicts = append(conflicts, models.SwapConflict{
			UserID:       userID,
			UserName:     name,
			FlightID:     a.FlightID,
			FlightNumber: a.FlightNumber,
			StartsAt:     models.Timestamp(a.StartsAt),
			EndsAt:       models.Timestamp(a.EndsAt),
		})
	}

	return conflicts, nil
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("user lookup failed")
		}
		return userID
	}
	return u.DisplayName()
}

// announce publishes a decision event. Delivery failures are logged and
// swallowed; the decision itself has already been committed.
func (s *Service) announce(ctx context.Context, eventType events.Type, p *Proposal) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.Event{
		Type:               eventType,
		SwapID:             p.ID,
		InitiatingUserID:   p.InitiatingUserID,
		RequestingUserID:   p.RequestingUserID,
		InitiatingFlightID: p.InitiatingFlightID,
		RequestingFlightID: p.RequestingFlightID,
		DecidedBy:          p.DecidedBy,
		OccurredAt:         time.Now(),
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("swap_id", p.ID).
			Str("type", string(eventType)).
			Msg("failed to publish swap event")
	}
}

func conflictMessage(conflicts []models.SwapConflict) string {
	first := conflicts[0]
	if len(conflicts) == 1 {
		return fmt.Sprintf("%s is already scheduled on flight %s during this window", first.UserName, first.FlightNumber)
	}
	return fmt.Sprintf("%s and %d other assignment(s) overlap this window", first.UserName, len(conflicts)-1)
}

// toAPISwap converts a domain Proposal to an API Swap.
func toAPISwap(p *Proposal) models.Swap {
	out := models.Swap{
		ID:                 p.ID,
		InitiatingUserID:   p.InitiatingUserID,
		InitiatingFlightID: p.InitiatingFlightID,
		RequestingUserID:   p.RequestingUserID,
		RequestingFlightID: p.RequestingFlightID,
		Note:               p.Note,
		Status:             string(p.Status),
		DecidedBy:          p.DecidedBy,
		CreatedAt:          models.Timestamp(p.CreatedAt),
		UpdatedAt:          models.Timestamp(p.UpdatedAt),
	}
	if p.DecidedAt != nil {
		t := models.Timestamp(*p.DecidedAt)
		out.DecidedAt = &t
	}
	return out
}
