package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendhive/service-rental/pkg/domain"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewDateRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 30, 0, 0, time.FixedZone("X", 7*3600))
	end := time.Date(2026, 3, 12, 2, 0, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)

	// Time components are dropped; both endpoints land on UTC midnight.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), r.Start())
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), r.End())
}

func TestNewDateRangeEndBeforeStart(t *testing.T) {
	_, err := NewDateRange(
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestParseDateRangeInvalid(t *testing.T) {
	_, err := ParseDateRange("2026-03-10", "not-a-date")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = ParseDateRange("03/10/2026", "2026-03-12")
	assert.Error(t, err)
}

func TestDateRangeDays(t *testing.T) {
	// Both endpoints count: a same-day rental is 1 day.
	assert.Equal(t, 1, mustRange(t, "2026-03-10", "2026-03-10").Days())
	assert.Equal(t, 3, mustRange(t, "2026-03-10", "2026-03-12").Days())
	assert.Equal(t, 31, mustRange(t, "2026-03-01", "2026-03-31").Days())
}

func TestDateRangeOverlaps(t *testing.T) {
	base := mustRange(t, "2026-03-10", "2026-03-15")

	tests := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", mustRange(t, "2026-03-10", "2026-03-15"), true},
		{"contained", mustRange(t, "2026-03-11", "2026-03-13"), true},
		{"containing", mustRange(t, "2026-03-01", "2026-03-31"), true},
		{"partial_left", mustRange(t, "2026-03-05", "2026-03-10"), true},
		{"partial_right", mustRange(t, "2026-03-15", "2026-03-20"), true},
		{"shared_boundary_start", mustRange(t, "2026-03-08", "2026-03-10"), true},
		{"shared_boundary_end", mustRange(t, "2026-03-15", "2026-03-18"), true},
		{"before", mustRange(t, "2026-03-01", "2026-03-09"), false},
		{"after", mustRange(t, "2026-03-16", "2026-03-20"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base))
		})
	}
}
