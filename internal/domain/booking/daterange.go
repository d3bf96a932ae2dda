package booking

import (
	"fmt"
	"time"

	"github.com/lendhive/service-rental/pkg/domain"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. Both endpoints are
// normalized to UTC midnight; a single-day rental has start == end.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from two timestamps, truncating any time
// component. Fails if end precedes start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if e.Before(s) {
		return DateRange{}, domain.NewValidationError("end date cannot precede start date")
	}
	return DateRange{start: s, end: e}, nil
}

// ParseDateRange builds a range from two ISO calendar date strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid start date %q", start))
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid end date %q", end))
	}
	return NewDateRange(s, e)
}

// Start returns the first day of the range.
func (r DateRange) Start() time.Time { return r.start }

// End returns the last day of the range.
func (r DateRange) End() time.Time { return r.end }

// Days returns the number of calendar days in the range, inclusive of both
// endpoints: a same-day range counts as 1.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours()/24) + 1
}

// Overlaps performs the closed-interval overlap test: ranges sharing a
// boundary day overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

// String formats the range for error messages.
func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.start.Format(DateLayout), r.end.Format(DateLayout))
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
