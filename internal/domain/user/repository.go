package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the user directory the booking core resolves identities against.
type Repository interface {
	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// EnsureExists creates a directory entry for the user if none exists.
	// Identities originate in the hosted identity provider, so a first-seen
	// ID is simply mirrored locally.
	EnsureExists(ctx context.Context, id uuid.UUID) error

	// Update persists changes to an existing user with optimistic locking.
	Update(ctx context.Context, u *User) error
}
