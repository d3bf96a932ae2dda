package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents is the stream all booking lifecycle events land on.
const TopicBookingEvents = "rental.booking.events"

// Event types on TopicBookingEvents.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	RentalStarted    = "booking.rental_started"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingDisputed  = "booking.disputed"
	DisputeResolved  = "booking.dispute_resolved"
	RatingAdded      = "booking.rating_added"
)

// BookingRequestedEvent is emitted when a borrower creates a pending booking.
type BookingRequestedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	ItemID         uuid.UUID `json:"item_id"`
	LenderID       uuid.UUID `json:"lender_id"`
	BorrowerID     uuid.UUID `json:"borrower_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalRentCents int64     `json:"total_rent_cents"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted for every successful transition.
type BookingStatusChangedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	LenderID   uuid.UUID `json:"lender_id"`
	BorrowerID uuid.UUID `json:"borrower_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCompletedEvent carries the settlement figures recorded in the ledger.
type BookingCompletedEvent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	ItemID           uuid.UUID `json:"item_id"`
	LenderID         uuid.UUID `json:"lender_id"`
	BorrowerID       uuid.UUID `json:"borrower_id"`
	PayoutCents      int64     `json:"payout_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
	Currency         string    `json:"currency"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// RatingAddedEvent is emitted when a party rates the counterparty.
type RatingAddedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	RaterID     uuid.UUID `json:"rater_id"`
	RatedUserID uuid.UUID `json:"rated_user_id"`
	Rating      int       `json:"rating"`
	OccurredAt  time.Time `json:"occurred_at"`
}
