package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	ledgerDomain "github.com/lendhive/service-rental/internal/domain/ledger"
	"github.com/lendhive/service-rental/pkg/domain"
)

// LedgerEntryModel is the GORM model for the ledger_entries table.
type LedgerEntryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	LenderID         uuid.UUID `gorm:"type:uuid;index;not null"`
	PayoutCents      int64     `gorm:"not null"`
	PlatformFeeCents int64     `gorm:"not null"`
	Currency         string    `gorm:"not null;size:3"`
	Memo             string    `gorm:"size:200"`
	RecordedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// GormLedgerRepository is the GORM-based implementation of ledger.Repository.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Save persists a new ledger entry.
func (r *GormLedgerRepository) Save(ctx context.Context, e *ledgerDomain.Entry) error {
	model := LedgerEntryModel{
		ID:               e.ID(),
		BookingID:        e.BookingID(),
		LenderID:         e.LenderID(),
		PayoutCents:      e.PayoutCents(),
		PlatformFeeCents: e.PlatformFeeCents(),
		Currency:         e.Currency(),
		Memo:             e.Memo(),
		RecordedAt:       e.RecordedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return nil
}

// FindByBookingID retrieves the entry recorded for a booking.
func (r *GormLedgerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*ledgerDomain.Entry, error) {
	var model LedgerEntryModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("LedgerEntry", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}
	return ledgerDomain.Reconstruct(
		model.ID, model.BookingID, model.LenderID,
		model.PayoutCents, model.PlatformFeeCents,
		model.Currency, model.Memo,
		model.RecordedAt,
	), nil
}
