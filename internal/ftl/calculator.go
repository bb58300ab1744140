// Package ftl implements advisory flight duty period calculations.
//
// The calculator produces a conservative, explainable estimate of the maximum
// flight duty period for a planned duty. It is an advisory tool for crew and
// rostering staff, not a certified regulatory engine; the operator's approved
// FTL scheme remains authoritative.
package ftl

import "fmt"

// Duty limit constants, in minutes.
const (
	// BaseFDPMinutes is the starting allowance before adjustments (13 hours).
	BaseFDPMinutes = 13 * 60

	// MinFDPMinutes is the absolute floor for the computed maximum (9 hours).
	// Adjustments can never reduce the result below this value.
	MinFDPMinutes = 9 * 60

	// woclDeepPenalty applies when report time falls inside the window of
	// circadian low proper (02:00 to 05:59 local).
	woclDeepPenalty = -90

	// woclEdgePenalty applies when report time falls in the late-evening or
	// pre-WOCL hours (22:00 to 01:59 local).
	woclEdgePenalty = -60

	// sectorPenaltyPerLeg is subtracted for each sector beyond the fourth.
	sectorPenaltyPerLeg = -30

	// penaltyFreeSectors is the number of sectors allowed without reduction.
	penaltyFreeSectors = 4

	// acclimatizationPenalty applies when the crew member's circadian state
	// does not match the report-time zone.
	acclimatizationPenalty = -60
)

// MinRestPolicy is the fixed minimum-rest advice attached to every result.
// It is a policy statement, not a value derived from the computed FDP.
const MinRestPolicy = "Minimum rest is 12 hours, or the length of the preceding duty period, whichever is greater."

// Input holds the parameters for a duty period calculation.
// Callers are expected to range-check fields at the API boundary; the
// calculator itself never fails.
type Input struct {
	// ReportHour is the local report hour, 0-23.
	ReportHour int

	// ReportMinute is the local report minute, 0-59.
	ReportMinute int

	// Sectors is the number of flight legs in the duty, 1-8.
	Sectors int

	// Acclimatized indicates whether the crew member's circadian rhythm
	// matches the local time zone at report.
	Acclimatized bool
}

// Adjustment is one applied rule in the human-readable breakdown.
type Adjustment struct {
	Label        string `json:"label"`
	DeltaMinutes int    `json:"deltaMinutes"`
	Rationale    string `json:"rationale"`
}

// Result is the outcome of a duty period calculation.
type Result struct {
	// MaxFDPMinutes is the maximum allowable flight duty period in minutes,
	// never less than MinFDPMinutes.
	MaxFDPMinutes int

	// MinRest is the minimum-rest policy statement.
	MinRest string

	// Breakdown lists the base allowance followed by every non-zero
	// adjustment, in display order. Zero adjustments are omitted but still
	// contribute (as zero) to the sum.
	Breakdown []Adjustment
}

// CalculateMaxDutyPeriod computes the maximum allowable flight duty period
// for the given inputs. The three adjustments are computed independently of
// one another; their ordering only matters for the breakdown display.
func CalculateMaxDutyPeriod(in Input) Result {
	wocl := woclDelta(in.ReportHour)
	sectors := sectorDelta(in.Sectors)
	acclim := acclimatizationDelta(in.Acclimatized)

	maxFDP := BaseFDPMinutes + wocl + sectors + acclim
	if maxFDP < MinFDPMinutes {
		maxFDP = MinFDPMinutes
	}

	return Result{
		MaxFDPMinutes: maxFDP,
		MinRest:       MinRestPolicy,
		Breakdown:     buildBreakdown(in, wocl, sectors, acclim),
	}
}

// woclDelta returns the window-of-circadian-low reduction for a report hour.
// The deep window is [02:00, 06:00); the edge window is [22:00, 02:00).
func woclDelta(hour int) int {
	switch {
	case hour >= 2 && hour < 6:
		return woclDeepPenalty
	case hour >= 22 || hour < 2:
		return woclEdgePenalty
	default:
		return 0
	}
}

// sectorDelta returns the multi-sector reduction. The first four sectors are
// free; each additional sector costs 30 minutes.
func sectorDelta(sectors int) int {
	if sectors <= penaltyFreeSectors {
		return 0
	}
	return (sectors - penaltyFreeSectors) * sectorPenaltyPerLeg
}

// acclimatizationDelta returns the reduction for non-acclimatized crew.
func acclimatizationDelta(acclimatized bool) int {
	if acclimatized {
		return 0
	}
	return acclimatizationPenalty
}

// buildBreakdown assembles the display breakdown. The numeric result does not
// depend on this ordering; the list is base first, then WOCL, sectors, and
// acclimatization, skipping zero deltas.
func buildBreakdown(in Input, wocl, sectors, acclim int) []Adjustment {
	breakdown := make([]Adjustment, 0, 4)

	breakdown = append(breakdown, Adjustment{
		Label:        "Base FDP",
		DeltaMinutes: BaseFDPMinutes,
		Rationale:    "standard maximum flight duty period before adjustments",
	})

	if wocl != 0 {
		rationale := "report time falls in the late-evening encroachment window (22:00-01:59 local)"
		if wocl == woclDeepPenalty {
			rationale = "report time falls within the window of circadian low (02:00-05:59 local)"
		}
		breakdown = append(breakdown, Adjustment{
			Label:        "WOCL encroachment",
			DeltaMinutes: wocl,
			Rationale:    rationale,
		})
	}

	if sectors != 0 {
		breakdown = append(breakdown, Adjustment{
			Label:        "Multi-sector duty",
			DeltaMinutes: sectors,
			Rationale:    fmt.Sprintf("30 minutes per sector beyond the fourth (%d sectors planned)", in.Sectors),
		})
	}

	if acclim != 0 {
		breakdown = append(breakdown, Adjustment{
			Label:        "Not acclimatized",
			DeltaMinutes: acclim,
			Rationale:    "crew member's circadian rhythm does not match the report-time zone",
		})
	}

	return breakdown
}

// FormatMinutes renders a minute count as a compact duration such as "13h00m".
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dh%02dm", sign, minutes/60, minutes%60)
}
