package booking

import (
	"context"

	"github.com/google/uuid"
)

// PartyFilter selects which side of a booking a user query matches.
type PartyFilter string

const (
	PartyLender   PartyFilter = "lender"
	PartyBorrower PartyFilter = "borrower"
	PartyBoth     PartyFilter = "both"
)

// Query is the filter set for a user's booking listing.
type Query struct {
	UserID   uuid.UUID
	Party    PartyFilter
	Statuses []Status
	// Overlapping, when set, matches bookings whose date range overlaps it.
	Overlapping *DateRange
	Page        int
	Limit       int
}

// RoleStats aggregates a user's bookings on one side of the marketplace.
type RoleStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	RentCents int64 `json:"rent_cents"`
	// AvgRating is the average of the counterparty's ratings, 0 when none.
	AvgRating float64 `json:"avg_rating"`
}

// UserStats holds per-role aggregates for one user.
type UserStats struct {
	AsLender   RoleStats `json:"as_lender"`
	AsBorrower RoleStats `json:"as_borrower"`
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	BlockingFinder

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Search retrieves a user's bookings filtered by party, status set, and
	// date-range overlap, newest first, with the total count.
	Search(ctx context.Context, q Query) ([]*Booking, int64, error)

	// StatsByUser aggregates booking counts, rent totals, and received
	// ratings for both of the user's roles.
	StatsByUser(ctx context.Context, userID uuid.UUID) (*UserStats, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
