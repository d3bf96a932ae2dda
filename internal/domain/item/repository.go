package item

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the item directory consumed by the booking core.
type Repository interface {
	// FindByID retrieves an item by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForUpdate retrieves an item and locks its row for the duration
	// of the surrounding transaction. Confirming a booking serializes on this
	// lock so overlapping confirms cannot interleave.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwnerID retrieves a user's listings with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Item, int64, error)

	// Save persists a new item.
	Save(ctx context.Context, it *Item) error

	// Update persists changes to an existing item with optimistic locking.
	Update(ctx context.Context, it *Item) error

	// SetStatus writes only the availability status column.
	SetStatus(ctx context.Context, id uuid.UUID, status AvailabilityStatus) error
}
