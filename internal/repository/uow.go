package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lendhive/service-rental/internal/domain/booking"
	"github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/internal/domain/ledger"
	"github.com/lendhive/service-rental/internal/domain/uow"
	"github.com/lendhive/service-rental/internal/domain/user"
)

// GormTxManager runs units of work inside GORM transactions.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager over the given connection.
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do runs fn inside a transaction; a non-nil error rolls everything back.
func (m *GormTxManager) Do(ctx context.Context, fn func(tx uow.UnitOfWork) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormUnitOfWork{tx: tx})
	})
}

// gormUnitOfWork binds each repository to the transaction connection.
type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Bookings() booking.Repository { return NewGormBookingRepository(u.tx) }
func (u *gormUnitOfWork) Items() item.Repository       { return NewGormItemRepository(u.tx) }
func (u *gormUnitOfWork) Users() user.Repository       { return NewGormUserRepository(u.tx) }
func (u *gormUnitOfWork) Ledger() ledger.Repository    { return NewGormLedgerRepository(u.tx) }
