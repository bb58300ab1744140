// Package worker provides background job processing for SkyRota.
package worker

import (
	"time"
)

// SweepConfig holds configuration for the roster sweep job.
type SweepConfig struct {
	// FlightLimit caps how many flights a single sweep inspects.
	// Default: 500
	FlightLimit int

	// Timeout is the timeout for a full sweep run.
	// Default: 2 minutes
	Timeout time.Duration

	// Repair enables creating missing calendar entries. When false the sweep
	// only reports drift.
	// Default: true
	Repair bool
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		FlightLimit: 500,
		Timeout:     2 * time.Minute,
		Repair:      true,
	}
}
