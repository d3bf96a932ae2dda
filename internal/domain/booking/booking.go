package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendhive/service-rental/pkg/domain"
)

// Free-text field caps.
const (
	maxInstructionsLen = 1000
	maxReasonLen       = 500
	maxFeedbackLen     = 1000
)

// Delivery holds the optional handover details captured at creation.
type Delivery struct {
	Mode               string
	PickupLocationID   *uuid.UUID
	DeliveryLocationID *uuid.UUID
	Instructions       string
}

// Booking is the aggregate root for a rental transaction between a lender
// (item owner) and a borrower. Financial figures are snapshots taken at
// creation and never change afterwards.
type Booking struct {
	id         uuid.UUID
	itemID     uuid.UUID
	lenderID   uuid.UUID
	borrowerID uuid.UUID
	period     DateRange

	totalDays           int
	dailyRateCents      int64
	totalRentCents      int64
	securityAmountCents int64
	platformFeeCents    int64
	currency            string

	status   Status
	delivery Delivery

	confirmedAt  *time.Time
	completedAt  *time.Time
	cancelledAt  *time.Time
	cancelReason string

	ratingByLender     *int
	ratingByBorrower   *int
	feedbackByLender   string
	feedbackByBorrower string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking from validated item terms and a quote.
func NewBooking(
	itemID, lenderID, borrowerID uuid.UUID,
	period DateRange,
	quote Quote,
	dailyRateCents int64,
	currency string,
	delivery Delivery,
) (*Booking, error) {
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item ID is required")
	}
	if lenderID == uuid.Nil || borrowerID == uuid.Nil {
		return nil, domain.NewValidationError("lender and borrower IDs are required")
	}
	if lenderID == borrowerID {
		return nil, domain.NewSelfBookingError()
	}
	if len(delivery.Instructions) > maxInstructionsLen {
		return nil, domain.NewValidationError("special instructions exceed 1000 characters")
	}

	now := time.Now().UTC()
	return &Booking{
		id:                  uuid.New(),
		itemID:              itemID,
		lenderID:            lenderID,
		borrowerID:          borrowerID,
		period:              period,
		totalDays:           quote.TotalDays,
		dailyRateCents:      dailyRateCents,
		totalRentCents:      quote.TotalRentCents,
		securityAmountCents: quote.SecurityAmountCents,
		platformFeeCents:    quote.PlatformFeeCents,
		currency:            currency,
		status:              StatusPending,
		delivery:            delivery,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, itemID, lenderID, borrowerID uuid.UUID,
	period DateRange,
	totalDays int,
	dailyRateCents, totalRentCents, securityAmountCents, platformFeeCents int64,
	currency string,
	status Status,
	delivery Delivery,
	confirmedAt, completedAt, cancelledAt *time.Time,
	cancelReason string,
	ratingByLender, ratingByBorrower *int,
	feedbackByLender, feedbackByBorrower string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		itemID:              itemID,
		lenderID:            lenderID,
		borrowerID:          borrowerID,
		period:              period,
		totalDays:           totalDays,
		dailyRateCents:      dailyRateCents,
		totalRentCents:      totalRentCents,
		securityAmountCents: securityAmountCents,
		platformFeeCents:    platformFeeCents,
		currency:            currency,
		status:              status,
		delivery:            delivery,
		confirmedAt:         confirmedAt,
		completedAt:         completedAt,
		cancelledAt:         cancelledAt,
		cancelReason:        cancelReason,
		ratingByLender:      ratingByLender,
		ratingByBorrower:    ratingByBorrower,
		feedbackByLender:    feedbackByLender,
		feedbackByBorrower:  feedbackByBorrower,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) ItemID() uuid.UUID          { return b.itemID }
func (b *Booking) LenderID() uuid.UUID        { return b.lenderID }
func (b *Booking) BorrowerID() uuid.UUID      { return b.borrowerID }
func (b *Booking) Period() DateRange          { return b.period }
func (b *Booking) TotalDays() int             { return b.totalDays }
func (b *Booking) DailyRateCents() int64      { return b.dailyRateCents }
func (b *Booking) TotalRentCents() int64      { return b.totalRentCents }
func (b *Booking) SecurityAmountCents() int64 { return b.securityAmountCents }
func (b *Booking) PlatformFeeCents() int64    { return b.platformFeeCents }
func (b *Booking) Currency() string           { return b.currency }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) DeliveryDetails() Delivery  { return b.delivery }
func (b *Booking) ConfirmedAt() *time.Time    { return b.confirmedAt }
func (b *Booking) CompletedAt() *time.Time    { return b.completedAt }
func (b *Booking) CancelledAt() *time.Time    { return b.cancelledAt }
func (b *Booking) CancelReason() string       { return b.cancelReason }
func (b *Booking) RatingByLender() *int       { return b.ratingByLender }
func (b *Booking) RatingByBorrower() *int     { return b.ratingByBorrower }
func (b *Booking) FeedbackByLender() string   { return b.feedbackByLender }
func (b *Booking) FeedbackByBorrower() string { return b.feedbackByBorrower }
func (b *Booking) Version() int64             { return b.version }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }

// --- Behavior ---

// RoleOf derives the booking role of the given user, or false if the user is
// not a party to this booking.
func (b *Booking) RoleOf(userID uuid.UUID) (Role, bool) {
	switch userID {
	case b.lenderID:
		return RoleLender, true
	case b.borrowerID:
		return RoleBorrower, true
	default:
		return "", false
	}
}

// Transition validates and applies a status change on behalf of the given
// role. On success the matching lifecycle timestamp is set exactly once; a
// reason is recorded only for cancellations.
func (b *Booking) Transition(requester Role, target Status, reason string) error {
	if !b.status.CanTransitionTo(target) || !b.status.RoleAllowed(target, requester) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	if len(reason) > maxReasonLen {
		return domain.NewValidationError("reason exceeds 500 characters")
	}

	now := time.Now().UTC()
	switch target {
	case StatusConfirmed:
		b.confirmedAt = &now
	case StatusCompleted:
		b.completedAt = &now
	case StatusCancelled:
		b.cancelledAt = &now
		if reason != "" {
			b.cancelReason = reason
		}
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// Rate records a 1-5 rating with optional feedback for the counterparty.
// Only legal on completed bookings, and write-once per role.
func (b *Booking) Rate(requester Role, rating int, feedback string) error {
	if b.status != StatusCompleted {
		return domain.NewInvalidStateError(string(b.status), "rated")
	}
	if rating < 1 || rating > 5 {
		return domain.NewValidationError("rating must be an integer between 1 and 5")
	}
	if len(feedback) > maxFeedbackLen {
		return domain.NewValidationError("feedback exceeds 1000 characters")
	}

	switch requester {
	case RoleLender:
		if b.ratingByLender != nil {
			return domain.NewAlreadyRatedError(string(RoleLender))
		}
		b.ratingByLender = &rating
		b.feedbackByLender = feedback
	case RoleBorrower:
		if b.ratingByBorrower != nil {
			return domain.NewAlreadyRatedError(string(RoleBorrower))
		}
		b.ratingByBorrower = &rating
		b.feedbackByBorrower = feedback
	default:
		return domain.NewForbiddenError("only booking parties may rate")
	}

	b.updatedAt = time.Now().UTC()
	return nil
}

// RatedUserID returns the counterparty whose trust score the rating affects.
func (b *Booking) RatedUserID(rater Role) uuid.UUID {
	if rater == RoleLender {
		return b.borrowerID
	}
	return b.lenderID
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
