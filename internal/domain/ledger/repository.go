package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists settlement entries.
type Repository interface {
	// Save persists a new entry. At most one entry exists per booking.
	Save(ctx context.Context, e *Entry) error

	// FindByBookingID retrieves the entry for a booking.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Entry, error)
}
