package swap

import (
	"context"

	"github.com/skyrota/skyrota/internal/flight"
)

// ListOptions contains options for listing proposals. Listing is bounded by
// Limit only; the swap inventory is small and browsed newest-first.
type ListOptions struct {
	Limit  int
	Status Status
}

// ApprovalChange is the input to one swap approval: the proposal in its
// approved state and the role the decision was made on. Stores must apply it
// atomically, re-reading both flight documents and re-resolving the roles
// inside the same transactional scope that closes the proposal, so a roster
// edit committed after the admin's validation can never be overwritten.
type ApprovalChange struct {
	// Proposal carries the approved state (status, decided-by, decided-at).
	Proposal *Proposal

	// Role is the matched role the approval was decided on. If either user
	// no longer holds it at apply time, the store must refuse the swap.
	Role flight.Role
}

// Store defines the interface for proposal persistence, including the
// transactional approval write.
type Store interface {
	// Get retrieves a proposal by ID.
	// Returns ErrSwapNotFound if no such proposal exists.
	Get(ctx context.Context, id string) (*Proposal, error)

	// List retrieves proposals ordered by creation time, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Proposal, error)

	// Create creates a new proposal.
	Create(ctx context.Context, proposal *Proposal) error

	// Update updates an existing proposal (claim and rejection transitions).
	Update(ctx context.Context, proposal *Proposal) error

	// Approve applies an approval change as a single atomic unit. A failure
	// at any point leaves the pre-swap state fully intact.
	Approve(ctx context.Context, change *ApprovalChange) error
}

// applyExchange swaps the two users between freshly read flight documents.
// Both roles are re-resolved on the current rosters first: if either user has
// been reassigned or removed since the proposal was validated, the exchange
// is refused. On error the callers discard both documents unwritten.
func applyExchange(change *ApprovalChange, initiating, requesting *flight.Flight) error {
	p := change.Proposal

	role, ok := initiating.RoleOf(p.InitiatingUserID)
	if !ok {
		return ErrNotCrewMember
	}
	if role != change.Role {
		return ErrRoleMismatch
	}

	role, ok = requesting.RoleOf(p.RequestingUserID)
	if !ok {
		return ErrNotCrewMember
	}
	if role != change.Role {
		return ErrRoleMismatch
	}

	if !initiating.ReplaceCrew(change.Role, p.InitiatingUserID, p.RequestingUserID) {
		return ErrNotCrewMember
	}
	if !requesting.ReplaceCrew(change.Role, p.RequestingUserID, p.InitiatingUserID) {
		return ErrNotCrewMember
	}
	initiating.UpdatedAt = p.UpdatedAt
	requesting.UpdatedAt = p.UpdatedAt

	return nil
}
