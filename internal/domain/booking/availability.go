package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BlockingFinder is the slice of the repository the availability check needs.
type BlockingFinder interface {
	// FindBlocking retrieves all bookings for the item whose status reserves
	// the calendar (confirmed or in progress).
	FindBlocking(ctx context.Context, itemID uuid.UUID) ([]*Booking, error)
}

// Checker decides whether a date range is free of blocking bookings for an
// item. Pending and disputed bookings do not reserve the calendar: a lender
// may hold several competing requests and the first to reach confirmed wins.
type Checker struct {
	bookings BlockingFinder
}

// NewChecker creates an availability Checker backed by the given finder.
func NewChecker(bookings BlockingFinder) *Checker {
	return &Checker{bookings: bookings}
}

// IsAvailable reports whether the item is free over the requested range.
// A lookup failure is returned as an error, distinct from an unavailable
// business result, which carries a human-readable reason.
func (c *Checker) IsAvailable(ctx context.Context, itemID uuid.UUID, requested DateRange) (bool, string, error) {
	blocking, err := c.bookings.FindBlocking(ctx, itemID)
	if err != nil {
		return false, "", fmt.Errorf("failed to load blocking bookings: %w", err)
	}

	for _, b := range blocking {
		if b.Period().Overlaps(requested) {
			reason := fmt.Sprintf("item is already booked from %s", b.Period())
			return false, reason, nil
		}
	}
	return true, "", nil
}
