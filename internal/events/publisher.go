// Package events publishes swap lifecycle events for downstream consumers
// such as the notification worker.
package events

import (
	"context"
	"time"
)

// Type identifies a lifecycle event.
type Type string

// Event types.
const (
	TypeSwapApproved Type = "swap_approved"
	TypeSwapRejected Type = "swap_rejected"
)

// Event describes a swap lifecycle transition.
type Event struct {
	Type               Type      `json:"type"`
	SwapID             string    `json:"swap_id"`
	InitiatingUserID   string    `json:"initiating_user_id"`
	RequestingUserID   string    `json:"requesting_user_id"`
	InitiatingFlightID string    `json:"initiating_flight_id"`
	RequestingFlightID string    `json:"requesting_flight_id"`
	DecidedBy          string    `json:"decided_by"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
