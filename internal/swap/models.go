// Package swap implements the crew flight-swap workflow: proposal lifecycle,
// conflict validation, and the atomic crew reassignment on approval.
package swap

import (
	"errors"
	"time"
)

// Swap errors.
var (
	// ErrSwapNotFound is returned when no proposal exists for an id.
	ErrSwapNotFound = errors.New("swap not found")

	// ErrRoleMismatch is returned when the two crew members hold different
	// operational roles. It is terminal: no availability check runs and no
	// mutation is attempted.
	ErrRoleMismatch = errors.New("crew roles do not match")

	// ErrNotCrewMember is returned when a user holds no role on the flight
	// they are offering.
	ErrNotCrewMember = errors.New("user is not assigned to this flight")

	// ErrNotClaimable is returned when claiming a proposal that is not in
	// the posted state.
	ErrNotClaimable = errors.New("swap is not open for claims")

	// ErrNotPending is returned when validating or deciding a proposal that
	// is not awaiting approval.
	ErrNotPending = errors.New("swap is not pending approval")

	// ErrSelfSwap is returned when a user tries to claim their own proposal.
	ErrSelfSwap = errors.New("cannot swap a flight with yourself")
)

// Status is the lifecycle state of a proposal.
type Status string

// Proposal lifecycle: posted, then pending_approval once a second crew
// member claims it, then terminal approved or rejected.
const (
	StatusPosted          Status = "posted"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

// Proposal represents a swap offer between two crew members.
type Proposal struct {
	ID string

	// InitiatingUserID posted the swap, offering InitiatingFlightID.
	InitiatingUserID   string
	InitiatingFlightID string

	// RequestingUserID claimed the swap with RequestingFlightID. Both are
	// empty while the proposal is posted.
	RequestingUserID   string
	RequestingFlightID string

	Note   string
	Status Status

	// DecidedBy and DecidedAt record the administrator decision for
	// terminal states.
	DecidedBy string
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the proposal has reached a final state.
func (p *Proposal) Terminal() bool {
	return p.Status == StatusApproved || p.Status == StatusRejected
}

// Clone returns a copy of the proposal.
func (p *Proposal) Clone() *Proposal {
	cpy := *p
	if p.DecidedAt != nil {
		t := *p.DecidedAt
		cpy.DecidedAt = &t
	}
	return &cpy
}
