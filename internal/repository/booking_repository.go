package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/lendhive/service-rental/internal/domain/booking"
	"github.com/lendhive/service-rental/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"type:uuid;index;not null"`
	LenderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	BorrowerID uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate  time.Time `gorm:"type:date;not null;index"`
	EndDate    time.Time `gorm:"type:date;not null"`

	TotalDays           int    `gorm:"not null"`
	DailyRateCents      int64  `gorm:"not null"`
	TotalRentCents      int64  `gorm:"not null"`
	SecurityAmountCents int64  `gorm:"not null;default:0"`
	PlatformFeeCents    int64  `gorm:"not null"`
	Currency            string `gorm:"not null;size:3;default:'USD'"`

	Status string `gorm:"not null;size:20;index"`

	DeliveryMode       string     `gorm:"size:20"`
	PickupLocationID   *uuid.UUID `gorm:"type:uuid"`
	DeliveryLocationID *uuid.UUID `gorm:"type:uuid"`
	Instructions       string     `gorm:"size:1000"`

	ConfirmedAt  *time.Time `gorm:""`
	CompletedAt  *time.Time `gorm:""`
	CancelledAt  *time.Time `gorm:""`
	CancelReason string     `gorm:"size:500"`

	RatingByLender     *int   `gorm:""`
	RatingByBorrower   *int   `gorm:""`
	FeedbackByLender   string `gorm:"size:1000"`
	FeedbackByBorrower string `gorm:"size:1000"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindBlocking retrieves all bookings for the item holding a blocking status.
func (r *GormBookingRepository) FindBlocking(ctx context.Context, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	statuses := bookingDomain.BlockingStatuses()
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND status IN ?", itemID, raw).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find blocking bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Search retrieves a user's bookings with party, status, and date filters.
func (r *GormBookingRepository) Search(ctx context.Context, q bookingDomain.Query) ([]*bookingDomain.Booking, int64, error) {
	tx := r.db.WithContext(ctx).Model(&BookingModel{})

	switch q.Party {
	case bookingDomain.PartyLender:
		tx = tx.Where("lender_id = ?", q.UserID)
	case bookingDomain.PartyBorrower:
		tx = tx.Where("borrower_id = ?", q.UserID)
	default:
		tx = tx.Where("lender_id = ? OR borrower_id = ?", q.UserID, q.UserID)
	}

	if len(q.Statuses) > 0 {
		raw := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			raw[i] = string(s)
		}
		tx = tx.Where("status IN ?", raw)
	}

	if q.Overlapping != nil {
		tx = tx.Where("start_date <= ? AND end_date >= ?", q.Overlapping.End(), q.Overlapping.Start())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (q.Page - 1) * q.Limit
	if err := tx.
		Order("created_at DESC").
		Offset(offset).
		Limit(q.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// StatsByUser aggregates per-role booking counts, rent sums, and average
// received ratings for the user.
func (r *GormBookingRepository) StatsByUser(ctx context.Context, userID uuid.UUID) (*bookingDomain.UserStats, error) {
	stats := &bookingDomain.UserStats{}

	asLender, err := r.roleStats(ctx, "lender_id", "rating_by_borrower", userID)
	if err != nil {
		return nil, err
	}
	stats.AsLender = *asLender

	asBorrower, err := r.roleStats(ctx, "borrower_id", "rating_by_lender", userID)
	if err != nil {
		return nil, err
	}
	stats.AsBorrower = *asBorrower

	return stats, nil
}

func (r *GormBookingRepository) roleStats(ctx context.Context, partyColumn, ratingColumn string, userID uuid.UUID) (*bookingDomain.RoleStats, error) {
	var row struct {
		Total     int64
		Completed int64
		Pending   int64
		RentCents int64
		AvgRating float64
	}
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COALESCE(SUM(total_rent_cents) FILTER (WHERE status = 'completed'), 0) AS rent_cents,
			COALESCE(AVG(%s), 0) AS avg_rating
		FROM bookings
		WHERE %s = ?`, ratingColumn, partyColumn)

	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	return &bookingDomain.RoleStats{
		Total:     row.Total,
		Completed: row.Completed,
		Pending:   row.Pending,
		RentCents: row.RentCents,
		AvgRating: row.AvgRating,
	}, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	// IncrementVersion was called before Update, so the row must still hold
	// the previous version.
	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":               model.Status,
			"confirmed_at":         model.ConfirmedAt,
			"completed_at":         model.CompletedAt,
			"cancelled_at":         model.CancelledAt,
			"cancel_reason":        model.CancelReason,
			"rating_by_lender":     model.RatingByLender,
			"rating_by_borrower":   model.RatingByBorrower,
			"feedback_by_lender":   model.FeedbackByLender,
			"feedback_by_borrower": model.FeedbackByBorrower,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	d := b.DeliveryDetails()
	return &BookingModel{
		ID:                  b.ID(),
		ItemID:              b.ItemID(),
		LenderID:            b.LenderID(),
		BorrowerID:          b.BorrowerID(),
		StartDate:           b.Period().Start(),
		EndDate:             b.Period().End(),
		TotalDays:           b.TotalDays(),
		DailyRateCents:      b.DailyRateCents(),
		TotalRentCents:      b.TotalRentCents(),
		SecurityAmountCents: b.SecurityAmountCents(),
		PlatformFeeCents:    b.PlatformFeeCents(),
		Currency:            b.Currency(),
		Status:              string(b.Status()),
		DeliveryMode:        d.Mode,
		PickupLocationID:    d.PickupLocationID,
		DeliveryLocationID:  d.DeliveryLocationID,
		Instructions:        d.Instructions,
		ConfirmedAt:         b.ConfirmedAt(),
		CompletedAt:         b.CompletedAt(),
		CancelledAt:         b.CancelledAt(),
		CancelReason:        b.CancelReason(),
		RatingByLender:      b.RatingByLender(),
		RatingByBorrower:    b.RatingByBorrower(),
		FeedbackByLender:    b.FeedbackByLender(),
		FeedbackByBorrower:  b.FeedbackByBorrower(),
		Version:             b.Version(),
		CreatedAt:           b.CreatedAt(),
		UpdatedAt:           b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	period, err := bookingDomain.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("booking %s has corrupt date range: %w", m.ID, err)
	}

	return bookingDomain.Reconstruct(
		m.ID, m.ItemID, m.LenderID, m.BorrowerID,
		period,
		m.TotalDays,
		m.DailyRateCents, m.TotalRentCents, m.SecurityAmountCents, m.PlatformFeeCents,
		m.Currency,
		status,
		bookingDomain.Delivery{
			Mode:               m.DeliveryMode,
			PickupLocationID:   m.PickupLocationID,
			DeliveryLocationID: m.DeliveryLocationID,
			Instructions:       m.Instructions,
		},
		m.ConfirmedAt, m.CompletedAt, m.CancelledAt,
		m.CancelReason,
		m.RatingByLender, m.RatingByBorrower,
		m.FeedbackByLender, m.FeedbackByBorrower,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
