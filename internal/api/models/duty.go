package models

// DutyCalculationRequest represents a request to compute the maximum flight
// duty period for a planned report time.
type DutyCalculationRequest struct {
	// ReportTime is the local report time in "HH:mm" form.
	ReportTime string `json:"reportTime"`

	Sectors      int  `json:"sectors"`
	Acclimatized bool `json:"acclimatized"`
}

// DutyAdjustment is one line of the duty calculation breakdown.
type DutyAdjustment struct {
	Label        string `json:"label"`
	DeltaMinutes int    `json:"deltaMinutes"`
	Rationale    string `json:"rationale"`
}

// DutyCalculationResponse represents the computed duty limits.
type DutyCalculationResponse struct {
	MaxDutyMinutes   int    `json:"maxDutyMinutes"`
	MaxDutyFormatted string `json:"maxDutyFormatted"`
	MinRest          string `json:"minRest"`

	Breakdown []DutyAdjustment `json:"breakdown"`
}
