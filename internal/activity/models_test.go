package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	a := &Activity{
		StartsAt: base,
		EndsAt:   base.Add(2 * time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"fully inside", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"fully containing", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"overlapping start", base.Add(-time.Hour), base.Add(time.Minute), true},
		{"overlapping end", base.Add(2*time.Hour - time.Minute), base.Add(3 * time.Hour), true},
		{"ends exactly at start", base.Add(-time.Hour), base, false},
		{"starts exactly at end", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
		{"entirely before", base.Add(-3 * time.Hour), base.Add(-time.Hour), false},
		{"entirely after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.start, tt.end))
		})
	}
}
