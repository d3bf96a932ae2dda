package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Entry is the placeholder settlement record written when a booking
// completes. No capture or payout happens here; downstream billing owns that.
type Entry struct {
	id               uuid.UUID
	bookingID        uuid.UUID
	lenderID         uuid.UUID
	payoutCents      int64
	platformFeeCents int64
	currency         string
	memo             string
	recordedAt       time.Time
}

// NewEntry records the lender payout (rent minus platform fee) for a
// completed booking.
func NewEntry(bookingID, lenderID uuid.UUID, totalRentCents, platformFeeCents int64, currency string) *Entry {
	return &Entry{
		id:               uuid.New(),
		bookingID:        bookingID,
		lenderID:         lenderID,
		payoutCents:      totalRentCents - platformFeeCents,
		platformFeeCents: platformFeeCents,
		currency:         currency,
		memo:             "rental completed",
		recordedAt:       time.Now().UTC(),
	}
}

// Reconstruct rebuilds an Entry from persistence data.
func Reconstruct(id, bookingID, lenderID uuid.UUID, payoutCents, platformFeeCents int64, currency, memo string, recordedAt time.Time) *Entry {
	return &Entry{
		id:               id,
		bookingID:        bookingID,
		lenderID:         lenderID,
		payoutCents:      payoutCents,
		platformFeeCents: platformFeeCents,
		currency:         currency,
		memo:             memo,
		recordedAt:       recordedAt,
	}
}

func (e *Entry) ID() uuid.UUID           { return e.id }
func (e *Entry) BookingID() uuid.UUID    { return e.bookingID }
func (e *Entry) LenderID() uuid.UUID     { return e.lenderID }
func (e *Entry) PayoutCents() int64      { return e.payoutCents }
func (e *Entry) PlatformFeeCents() int64 { return e.platformFeeCents }
func (e *Entry) Currency() string        { return e.currency }
func (e *Entry) Memo() string            { return e.memo }
func (e *Entry) RecordedAt() time.Time   { return e.recordedAt }
