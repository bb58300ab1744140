package activity

import (
	"context"
	"time"
)

// Repository defines the interface for activity data persistence.
type Repository interface {
	// ListForUser retrieves all activities for a user ordered by start time.
	ListForUser(ctx context.Context, userID string) ([]*Activity, error)

	// OverlappingForUser retrieves a user's activities overlapping the
	// [start, end) window, excluding entries that point at excludeFlightID.
	// The exclusion exists for swap validation: the flight being vacated no
	// longer occupies the user's calendar once the swap executes.
	OverlappingForUser(ctx context.Context, userID string, start, end time.Time, excludeFlightID string) ([]*Activity, error)

	// Create creates a new activity.
	Create(ctx context.Context, activity *Activity) error
}
