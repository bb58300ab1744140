package models

// FlightCrew groups the crew assignment for a flight by role.
type FlightCrew struct {
	PurserID      string   `json:"purserId,omitempty"`
	PilotIDs      []string `json:"pilotIds,omitempty"`
	CabinCrewIDs  []string `json:"cabinCrewIds,omitempty"`
	InstructorIDs []string `json:"instructorIds,omitempty"`
	TraineeIDs    []string `json:"traineeIds,omitempty"`
}

// Flight represents a scheduled flight in API responses.
type Flight struct {
	ID                 string    `json:"id"`
	Number             string    `json:"number"`
	DepartureAirport   string    `json:"departureAirport"`
	ArrivalAirport     string    `json:"arrivalAirport"`
	ScheduledDeparture Timestamp `json:"scheduledDeparture"`
	ScheduledArrival   Timestamp `json:"scheduledArrival"`

	// UTC offsets are enriched from the airport directory and may be absent
	// when the lookup was unavailable at creation time.
	DepartureUTCOffsetMinutes *int `json:"departureUtcOffsetMinutes,omitempty"`
	ArrivalUTCOffsetMinutes   *int `json:"arrivalUtcOffsetMinutes,omitempty"`

	Crew FlightCrew `json:"crew"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// FlightCreateRequest represents a request to schedule a flight.
type FlightCreateRequest struct {
	Number             string    `json:"number"`
	DepartureAirport   string    `json:"departureAirport"`
	ArrivalAirport     string    `json:"arrivalAirport"`
	ScheduledDeparture Timestamp `json:"scheduledDeparture"`
	ScheduledArrival   Timestamp `json:"scheduledArrival"`

	Crew FlightCrew `json:"crew"`
}

// PagedFlights represents a paginated list of flights.
type PagedFlights struct {
	Items []Flight          `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
