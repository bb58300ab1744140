package models

// Swap represents a flight-swap proposal in API responses.
type Swap struct {
	ID string `json:"id"`

	InitiatingUserID   string `json:"initiatingUserId"`
	InitiatingFlightID string `json:"initiatingFlightId"`
	RequestingUserID   string `json:"requestingUserId,omitempty"`
	RequestingFlightID string `json:"requestingFlightId,omitempty"`

	Note   string `json:"note,omitempty"`
	Status string `json:"status"`

	DecidedBy string     `json:"decidedBy,omitempty"`
	DecidedAt *Timestamp `json:"decidedAt,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// SwapCreateRequest posts a flight for swapping.
type SwapCreateRequest struct {
	FlightID string `json:"flightId"`
	Note     string `json:"note,omitempty"`
}

// SwapClaimRequest claims a posted swap, offering a flight in return.
type SwapClaimRequest struct {
	FlightID string `json:"flightId"`
}

// SwapRejectRequest carries the optional rejection reason.
type SwapRejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SwapConflict describes one overlapping duty found during validation.
type SwapConflict struct {
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	FlightID     string    `json:"flightId"`
	FlightNumber string    `json:"flightNumber"`
	StartsAt     Timestamp `json:"startsAt"`
	EndsAt       Timestamp `json:"endsAt"`
}

// SwapValidationResult reports the outcome of validating a pending swap.
// Conflicts are data, not errors: an administrator may approve regardless.
type SwapValidationResult struct {
	Role            string         `json:"role"`
	Conflicts       []SwapConflict `json:"conflicts"`
	ConflictMessage *string        `json:"conflictMessage,omitempty"`
}

// PagedSwaps represents a paginated list of swap proposals.
type PagedSwaps struct {
	Items []Swap            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
