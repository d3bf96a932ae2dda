package uow

import (
	"context"

	"github.com/lendhive/service-rental/internal/domain/booking"
	"github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/internal/domain/ledger"
	"github.com/lendhive/service-rental/internal/domain/user"
)

// UnitOfWork exposes the repositories bound to one transaction. The
// availability re-check that gates a confirm runs through these so the read
// and the write share the same isolation scope.
type UnitOfWork interface {
	Bookings() booking.Repository
	Items() item.Repository
	Users() user.Repository
	Ledger() ledger.Repository
}

// Manager runs a function inside a transaction boundary, committing on nil
// and rolling back on error.
type Manager interface {
	Do(ctx context.Context, fn func(tx UnitOfWork) error) error
}
