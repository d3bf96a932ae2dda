package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendhive/service-rental/internal/domain/booking"
	"github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/internal/domain/ledger"
	"github.com/lendhive/service-rental/internal/domain/uow"
	"github.com/lendhive/service-rental/internal/events"
	"github.com/lendhive/service-rental/pkg/domain"
)

// CreateBookingRequest holds the data needed to request a new booking.
type CreateBookingRequest struct {
	ItemID              uuid.UUID  `json:"item_id" binding:"required"`
	StartDate           string     `json:"start_date" binding:"required,calendardate"`
	EndDate             string     `json:"end_date" binding:"required,calendardate"`
	DeliveryMode        string     `json:"delivery_mode" binding:"omitempty,oneof=pickup delivery"`
	PickupLocationID    *uuid.UUID `json:"pickup_location_id"`
	DeliveryLocationID  *uuid.UUID `json:"delivery_location_id"`
	SpecialInstructions string     `json:"special_instructions" binding:"max=1000"`
}

// UpdateStatusRequest holds a requested lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed in_progress completed cancelled disputed"`
	Reason string `json:"reason" binding:"max=500"`
}

// AddRatingRequest holds a party's rating of the counterparty.
type AddRatingRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=1000"`
}

// ListBookingsQuery holds the filter set for a user's booking listing.
type ListBookingsQuery struct {
	Party     string
	Statuses  []string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                  uuid.UUID  `json:"id"`
	ItemID              uuid.UUID  `json:"item_id"`
	LenderID            uuid.UUID  `json:"lender_id"`
	BorrowerID          uuid.UUID  `json:"borrower_id"`
	StartDate           string     `json:"start_date"`
	EndDate             string     `json:"end_date"`
	TotalDays           int        `json:"total_days"`
	DailyRateCents      int64      `json:"daily_rate_cents"`
	TotalRentCents      int64      `json:"total_rent_cents"`
	SecurityAmountCents int64      `json:"security_amount_cents"`
	PlatformFeeCents    int64      `json:"platform_fee_cents"`
	Currency            string     `json:"currency"`
	Status              string     `json:"status"`
	DeliveryMode        string     `json:"delivery_mode,omitempty"`
	PickupLocationID    *uuid.UUID `json:"pickup_location_id,omitempty"`
	DeliveryLocationID  *uuid.UUID `json:"delivery_location_id,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancelReason        string     `json:"cancel_reason,omitempty"`
	RatingByLender      *int       `json:"rating_by_lender,omitempty"`
	RatingByBorrower    *int       `json:"rating_by_borrower,omitempty"`
	FeedbackByLender    string     `json:"feedback_by_lender,omitempty"`
	FeedbackByBorrower  string     `json:"feedback_by_borrower,omitempty"`
	Version             int64      `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation, transitions, ratings, and queries.
type BookingService struct {
	bookings  booking.Repository
	items     item.Repository
	pricing   booking.PricingStrategy
	tx        uow.Manager
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings booking.Repository,
	items item.Repository,
	pricing booking.PricingStrategy,
	tx uow.Manager,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		pricing:   pricing,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking creates a pending booking for the given borrower. The
// availability check here is advisory; the authoritative check happens again
// at confirm time under the item lock.
func (s *BookingService) CreateBooking(ctx context.Context, borrowerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	period, err := booking.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !it.IsActive() {
		return nil, domain.NewValidationError("item is not available for rental")
	}
	if it.IsOwnedBy(borrowerID) {
		return nil, domain.NewSelfBookingError()
	}

	checker := booking.NewChecker(s.bookings)
	available, reason, err := checker.IsAvailable(ctx, it.ID(), period)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !available {
		return nil, domain.NewUnavailableError(reason)
	}

	quote, err := s.pricing.Quote(booking.PricingParams{
		DailyRateCents:      it.DailyRateCents(),
		SecurityAmountCents: it.SecurityAmountCents(),
		MinRentalDays:       it.MinRentalDays(),
		MaxRentalDays:       it.MaxRentalDays(),
		Period:              period,
	})
	if err != nil {
		return nil, err
	}

	bk, err := booking.NewBooking(
		it.ID(),
		it.OwnerID(),
		borrowerID,
		period,
		quote,
		it.DailyRateCents(),
		domain.CurrencyUSD,
		booking.Delivery{
			Mode:               req.DeliveryMode,
			PickupLocationID:   req.PickupLocationID,
			DeliveryLocationID: req.DeliveryLocationID,
			Instructions:       req.SpecialInstructions,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.tx.Do(ctx, func(tx uow.UnitOfWork) error {
		if err := tx.Users().EnsureExists(ctx, bk.LenderID()); err != nil {
			return fmt.Errorf("failed to register lender: %w", err)
		}
		if err := tx.Users().EnsureExists(ctx, bk.BorrowerID()); err != nil {
			return fmt.Errorf("failed to register borrower: %w", err)
		}
		if err := tx.Bookings().Save(ctx, bk); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:      bk.ID(),
		ItemID:         bk.ItemID(),
		LenderID:       bk.LenderID(),
		BorrowerID:     bk.BorrowerID(),
		StartDate:      bk.Period().Start().Format(booking.DateLayout),
		EndDate:        bk.Period().End().Format(booking.DateLayout),
		TotalRentCents: bk.TotalRentCents(),
		Currency:       bk.Currency(),
		OccurredAt:     time.Now().UTC(),
	})

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", bk.ItemID().String()),
		zap.Int("total_days", bk.TotalDays()))

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateStatus applies a lifecycle transition on behalf of the requester. The
// whole transition runs in one transaction: the item row is locked first, so
// two concurrent confirms for the same item serialize and the second one sees
// the winner's blocking booking when it re-checks availability.
func (s *BookingService) UpdateStatus(
	ctx context.Context,
	bookingID, requesterID uuid.UUID,
	requesterRole string,
	req UpdateStatusRequest,
) (*BookingDTO, error) {
	target, err := booking.ParseStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	var (
		bk   *booking.Booking
		from booking.Status
	)
	txErr := s.tx.Do(ctx, func(tx uow.UnitOfWork) error {
		var err error
		bk, err = tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		role, err := s.resolveRole(bk, requesterID, requesterRole)
		if err != nil {
			return err
		}

		// Lock the item row before any availability read. This is the
		// serialization point for competing confirms.
		it, err := tx.Items().FindByIDForUpdate(ctx, bk.ItemID())
		if err != nil {
			return err
		}

		if target == booking.StatusConfirmed {
			checker := booking.NewChecker(tx.Bookings())
			available, reason, err := checker.IsAvailable(ctx, it.ID(), bk.Period())
			if err != nil {
				return fmt.Errorf("failed to check availability: %w", err)
			}
			if !available {
				return domain.NewUnavailableError(reason)
			}
		}

		from = bk.Status()
		if err := bk.Transition(role, target, req.Reason); err != nil {
			return err
		}

		bk.IncrementVersion()
		if err := tx.Bookings().Update(ctx, bk); err != nil {
			return err
		}

		if itemStatus, ok := target.ItemStatus(); ok {
			if err := tx.Items().SetStatus(ctx, it.ID(), itemStatus); err != nil {
				return fmt.Errorf("failed to update item status: %w", err)
			}
		}

		if target == booking.StatusCompleted {
			entry := ledger.NewEntry(bk.ID(), bk.LenderID(), bk.TotalRentCents(), bk.PlatformFeeCents(), bk.Currency())
			if err := tx.Ledger().Save(ctx, entry); err != nil {
				return fmt.Errorf("failed to record settlement: %w", err)
			}
		}

		s.logger.Info("booking transitioned",
			zap.String("booking_id", bk.ID().String()),
			zap.String("from", from.String()),
			zap.String("to", target.String()),
			zap.String("role", string(role)))
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publishTransition(ctx, bk, from, target, req.Reason, requesterRole)

	result := toBookingDTO(bk)
	return &result, nil
}

// AddRating records a party's rating of the counterparty on a completed
// booking and folds it into the rated user's trust score.
func (s *BookingService) AddRating(
	ctx context.Context,
	bookingID, requesterID uuid.UUID,
	req AddRatingRequest,
) (*BookingDTO, error) {
	var bk *booking.Booking
	txErr := s.tx.Do(ctx, func(tx uow.UnitOfWork) error {
		var err error
		bk, err = tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		role, ok := bk.RoleOf(requesterID)
		if !ok {
			return domain.NewForbiddenError("only booking parties may rate")
		}

		if err := bk.Rate(role, req.Rating, req.Feedback); err != nil {
			return err
		}

		bk.IncrementVersion()
		if err := tx.Bookings().Update(ctx, bk); err != nil {
			return err
		}

		rated, err := tx.Users().FindByID(ctx, bk.RatedUserID(role))
		if err != nil {
			return err
		}
		rated.ApplyRating(req.Rating)
		if err := tx.Users().Update(ctx, rated); err != nil {
			return fmt.Errorf("failed to update trust score: %w", err)
		}

		s.publisher.Publish(ctx, events.RatingAdded, bk.ID().String(), events.RatingAddedEvent{
			BookingID:   bk.ID(),
			RaterID:     requesterID,
			RatedUserID: rated.ID(),
			Rating:      req.Rating,
			OccurredAt:  time.Now().UTC(),
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking visible to the requester: its parties or an admin.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, ok := bk.RoleOf(requesterID); !ok && requesterRole != string(booking.RoleAdmin) {
		return nil, domain.NewForbiddenError("not a party to this booking")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves the requester's bookings filtered by party,
// status set, and date-range overlap, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) (*domain.PaginatedResult[BookingDTO], error) {
	query := booking.Query{
		UserID: userID,
		Party:  booking.PartyBoth,
		Page:   q.Page,
		Limit:  q.Limit,
	}

	switch q.Party {
	case "", string(booking.PartyBoth):
	case string(booking.PartyLender):
		query.Party = booking.PartyLender
	case string(booking.PartyBorrower):
		query.Party = booking.PartyBorrower
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("invalid party filter %q", q.Party))
	}

	for _, raw := range q.Statuses {
		st, err := booking.ParseStatus(raw)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		query.Statuses = append(query.Statuses, st)
	}

	if q.StartDate != "" || q.EndDate != "" {
		if q.StartDate == "" || q.EndDate == "" {
			return nil, domain.NewValidationError("start_date and end_date must be provided together")
		}
		period, err := booking.ParseDateRange(q.StartDate, q.EndDate)
		if err != nil {
			return nil, err
		}
		query.Overlapping = &period
	}

	list, total, err := s.bookings.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(list), total, query.Page, query.Limit)
	return &result, nil
}

// GetUserBookingStats aggregates the requester's booking activity per role.
func (s *BookingService) GetUserBookingStats(ctx context.Context, userID uuid.UUID) (*booking.UserStats, error) {
	return s.bookings.StatsByUser(ctx, userID)
}

// ListAllBookings retrieves all bookings with pagination (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	list, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(list), total, page, limit)
	return &result, nil
}

// GetBookingStats returns platform-wide booking counts by status (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (map[string]int64, error) {
	return s.bookings.CountByStatus(ctx)
}

// resolveRole derives the requester's booking role. A requester who is a
// party acts in that capacity even when they hold the admin role, so an
// admin who lends out their own items keeps lender permissions on their
// bookings. Admins who are not a party act as admin.
func (s *BookingService) resolveRole(bk *booking.Booking, requesterID uuid.UUID, requesterRole string) (booking.Role, error) {
	if role, ok := bk.RoleOf(requesterID); ok {
		return role, nil
	}
	if requesterRole == string(booking.RoleAdmin) {
		return booking.RoleAdmin, nil
	}
	return "", domain.NewForbiddenError("not a party to this booking")
}

func (s *BookingService) publishTransition(ctx context.Context, bk *booking.Booking, from, target booking.Status, reason, requesterRole string) {
	now := time.Now().UTC()

	if target == booking.StatusCompleted {
		s.publisher.Publish(ctx, events.BookingCompleted, bk.ID().String(), events.BookingCompletedEvent{
			BookingID:        bk.ID(),
			ItemID:           bk.ItemID(),
			LenderID:         bk.LenderID(),
			BorrowerID:       bk.BorrowerID(),
			PayoutCents:      bk.TotalRentCents() - bk.PlatformFeeCents(),
			PlatformFeeCents: bk.PlatformFeeCents(),
			Currency:         bk.Currency(),
			OccurredAt:       now,
		})
		return
	}

	eventType := map[booking.Status]string{
		booking.StatusConfirmed:  events.BookingConfirmed,
		booking.StatusInProgress: events.RentalStarted,
		booking.StatusCancelled:  events.BookingCancelled,
		booking.StatusDisputed:   events.BookingDisputed,
	}[target]
	if requesterRole == string(booking.RoleAdmin) && target == booking.StatusCancelled {
		eventType = events.DisputeResolved
	}

	s.publisher.Publish(ctx, eventType, bk.ID().String(), events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		LenderID:   bk.LenderID(),
		BorrowerID: bk.BorrowerID(),
		FromStatus: from.String(),
		ToStatus:   target.String(),
		Reason:     reason,
		OccurredAt: now,
	})
}

func toBookingDTO(bk *booking.Booking) BookingDTO {
	d := bk.DeliveryDetails()
	return BookingDTO{
		ID:                  bk.ID(),
		ItemID:              bk.ItemID(),
		LenderID:            bk.LenderID(),
		BorrowerID:          bk.BorrowerID(),
		StartDate:           bk.Period().Start().Format(booking.DateLayout),
		EndDate:             bk.Period().End().Format(booking.DateLayout),
		TotalDays:           bk.TotalDays(),
		DailyRateCents:      bk.DailyRateCents(),
		TotalRentCents:      bk.TotalRentCents(),
		SecurityAmountCents: bk.SecurityAmountCents(),
		PlatformFeeCents:    bk.PlatformFeeCents(),
		Currency:            bk.Currency(),
		Status:              bk.Status().String(),
		DeliveryMode:        d.Mode,
		PickupLocationID:    d.PickupLocationID,
		DeliveryLocationID:  d.DeliveryLocationID,
		SpecialInstructions: d.Instructions,
		ConfirmedAt:         bk.ConfirmedAt(),
		CompletedAt:         bk.CompletedAt(),
		CancelledAt:         bk.CancelledAt(),
		CancelReason:        bk.CancelReason(),
		RatingByLender:      bk.RatingByLender(),
		RatingByBorrower:    bk.RatingByBorrower(),
		FeedbackByLender:    bk.FeedbackByLender(),
		FeedbackByBorrower:  bk.FeedbackByBorrower(),
		Version:             bk.Version(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}
}

func toBookingDTOs(list []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(list))
	for i, bk := range list {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
