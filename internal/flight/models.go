// Package flight provides flight record management services.
package flight

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrFlightNotFound = errors.New("flight not found")
)

// Role is an operational crew role on a flight.
type Role string

// Crew roles, in seniority order.
const (
	RolePurser     Role = "purser"
	RolePilot      Role = "pilot"
	RoleCabinCrew  Role = "cabin_crew"
	RoleInstructor Role = "instructor"
	RoleTrainee    Role = "trainee"
)

// Flight represents a scheduled flight and its crew assignment.
type Flight struct {
	ID                 string
	Number             string
	DepartureAirport   string
	ArrivalAirport     string
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time

	// Departure/ArrivalUTCOffsetMinutes hold airport time zone offsets,
	// enriched from the airport metadata provider when available.
	DepartureUTCOffsetMinutes *int
	ArrivalUTCOffsetMinutes   *int

	// Crew assignment by role. PurserID is a single slot; the remaining
	// roles are id lists. CrewIDs is the denormalized aggregate of every
	// assigned crew member and must stay consistent with the role fields.
	PurserID      string
	PilotIDs      []string
	CabinCrewIDs  []string
	InstructorIDs []string
	TraineeIDs    []string
	CrewIDs       []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// roleSlot maps one crew role to its backing field on Flight. Keeping role
// resolution in a single table keeps lookup and replacement a pure function
// over the flight document.
type roleSlot struct {
	role     Role
	contains func(f *Flight, userID string) bool
	replace  func(f *Flight, oldID, newID string) bool
}

var roleSlots = []roleSlot{
	{
		role:     RolePurser,
		contains: func(f *Flight, id string) bool { return f.PurserID == id },
		replace: func(f *Flight, oldID, newID string) bool {
			if f.PurserID != oldID {
				return false
			}
			f.PurserID = newID
			return true
		},
	},
	{
		role:     RolePilot,
		contains: func(f *Flight, id string) bool { return containsID(f.PilotIDs, id) },
		replace: func(f *Flight, oldID, newID string) bool {
			return replaceID(f.PilotIDs, oldID, newID)
		},
	},
	{
		role:     RoleCabinCrew,
		contains: func(f *Flight, id string) bool { return containsID(f.CabinCrewIDs, id) },
		replace: func(f *Flight, oldID, newID string) bool {
			return replaceID(f.CabinCrewIDs, oldID, newID)
		},
	},
	{
		role:     RoleInstructor,
		contains: func(f *Flight, id string) bool { return containsID(f.InstructorIDs, id) },
		replace: func(f *Flight, oldID, newID string) bool {
			return replaceID(f.InstructorIDs, oldID, newID)
		},
	},
	{
		role:     RoleTrainee,
		contains: func(f *Flight, id string) bool { return containsID(f.TraineeIDs, id) },
		replace: func(f *Flight, oldID, newID string) bool {
			return replaceID(f.TraineeIDs, oldID, newID)
		},
	},
}

// RoleOf returns the role the given user holds on this flight. The second
// return value is false if the user is not assigned in any role field.
func (f *Flight) RoleOf(userID string) (Role, bool) {
	for _, slot := range roleSlots {
		if slot.contains(f, userID) {
			return slot.role, true
		}
	}
	return "", false
}

// ReplaceCrew swaps oldID for newID in the given role field and in the
// aggregate crew list. It returns false, without mutating anything, if oldID
// does not hold the role on this flight or is missing from the aggregate:
// the role fields and CrewIDs change together or not at all.
func (f *Flight) ReplaceCrew(role Role, oldID, newID string) bool {
	for _, slot := range roleSlots {
		if slot.role != role {
			continue
		}
		if !slot.contains(f, oldID) {
			return false
		}
		if !replaceID(f.CrewIDs, oldID, newID) {
			return false
		}
		slot.replace(f, oldID, newID)
		return true
	}
	return false
}

// Clone returns a deep copy of the flight, safe to mutate independently.
func (f *Flight) Clone() *Flight {
	cpy := *f
	cpy.PilotIDs = append([]string(nil), f.PilotIDs...)
	cpy.CabinCrewIDs = append([]string(nil), f.CabinCrewIDs...)
	cpy.InstructorIDs = append([]string(nil), f.InstructorIDs...)
	cpy.TraineeIDs = append([]string(nil), f.TraineeIDs...)
	cpy.CrewIDs = append([]string(nil), f.CrewIDs...)
	if f.DepartureUTCOffsetMinutes != nil {
		v := *f.DepartureUTCOffsetMinutes
		cpy.DepartureUTCOffsetMinutes = &v
	}
	if f.ArrivalUTCOffsetMinutes != nil {
		v := *f.ArrivalUTCOffsetMinutes
		cpy.ArrivalUTCOffsetMinutes = &v
	}
	return &cpy
}

// ValidRole reports whether the given string names a known crew role.
func ValidRole(r Role) bool {
	for _, slot := range roleSlots {
		if slot.role == r {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func replaceID(ids []string, oldID, newID string) bool {
	for i, v := range ids {
		if v == oldID {
			ids[i] = newID
			return true
		}
	}
	return false
}
