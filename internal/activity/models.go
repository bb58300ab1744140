// Package activity manages denormalized crew calendar entries.
//
// Every flight assignment is mirrored into one activity row per crew member.
// The swap approval transaction repoints these rows; the conflict validator
// reads them to find schedule overlaps.
package activity

import (
	"time"
)

// Activity is one entry on a crew member's calendar.
type Activity struct {
	ID     string
	UserID string

	// FlightID links the entry to its source flight. The denormalized
	// fields below are display metadata and must be refreshed whenever the
	// entry is repointed at a different flight.
	FlightID         string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string

	StartsAt time.Time
	EndsAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the activity intersects the [start, end) window.
func (a *Activity) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && a.EndsAt.After(start)
}

// Clone returns a copy of the activity.
func (a *Activity) Clone() *Activity {
	cpy := *a
	return &cpy
}
