package item

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendhive/service-rental/pkg/domain"
)

// AvailabilityStatus tracks where an item is in its physical rental cycle.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusBooked      AvailabilityStatus = "booked"
	StatusInTransit   AvailabilityStatus = "in_transit"
	StatusDelivered   AvailabilityStatus = "delivered"
	StatusReturned    AvailabilityStatus = "returned"
	StatusMaintenance AvailabilityStatus = "maintenance"
	StatusInactive    AvailabilityStatus = "inactive"
)

var knownStatuses = map[AvailabilityStatus]struct{}{
	StatusAvailable:   {},
	StatusBooked:      {},
	StatusInTransit:   {},
	StatusDelivered:   {},
	StatusReturned:    {},
	StatusMaintenance: {},
	StatusInactive:    {},
}

// IsValid returns true if the status is a recognized availability status.
func (s AvailabilityStatus) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// ParseAvailabilityStatus converts a string to an AvailabilityStatus.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	status := AvailabilityStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item availability status: %s", s)
	}
	return status, nil
}

// Item is the aggregate root for a rentable listing. The booking core reads
// its terms (rate, deposit, day bounds, owner, active flag) and writes back
// only the availability status.
type Item struct {
	id                  uuid.UUID
	ownerID             uuid.UUID
	name                string
	description         string
	active              bool
	status              AvailabilityStatus
	dailyRateCents      int64
	securityAmountCents int64
	minRentalDays       int
	maxRentalDays       int
	version             int64
	createdAt           time.Time
	updatedAt           time.Time
}

// NewItem creates an active, available listing with validated rental terms.
func NewItem(
	ownerID uuid.UUID,
	name, description string,
	dailyRateCents, securityAmountCents int64,
	minRentalDays, maxRentalDays int,
) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if dailyRateCents <= 0 {
		return nil, domain.NewValidationError("daily rate must be positive")
	}
	if securityAmountCents < 0 {
		return nil, domain.NewValidationError("security amount cannot be negative")
	}
	if minRentalDays < 1 {
		return nil, domain.NewValidationError("minimum rental days must be at least 1")
	}
	if maxRentalDays < minRentalDays {
		return nil, domain.NewValidationError("maximum rental days cannot be below the minimum")
	}

	now := time.Now().UTC()
	return &Item{
		id:                  uuid.New(),
		ownerID:             ownerID,
		name:                name,
		description:         description,
		active:              true,
		status:              StatusAvailable,
		dailyRateCents:      dailyRateCents,
		securityAmountCents: securityAmountCents,
		minRentalDays:       minRentalDays,
		maxRentalDays:       maxRentalDays,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, description string,
	active bool,
	status AvailabilityStatus,
	dailyRateCents, securityAmountCents int64,
	minRentalDays, maxRentalDays int,
	version int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:                  id,
		ownerID:             ownerID,
		name:                name,
		description:         description,
		active:              active,
		status:              status,
		dailyRateCents:      dailyRateCents,
		securityAmountCents: securityAmountCents,
		minRentalDays:       minRentalDays,
		maxRentalDays:       maxRentalDays,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() uuid.UUID              { return i.id }
func (i *Item) OwnerID() uuid.UUID         { return i.ownerID }
func (i *Item) Name() string               { return i.name }
func (i *Item) Description() string        { return i.description }
func (i *Item) IsActive() bool             { return i.active }
func (i *Item) Status() AvailabilityStatus { return i.status }
func (i *Item) DailyRateCents() int64      { return i.dailyRateCents }
func (i *Item) SecurityAmountCents() int64 { return i.securityAmountCents }
func (i *Item) MinRentalDays() int         { return i.minRentalDays }
func (i *Item) MaxRentalDays() int         { return i.maxRentalDays }
func (i *Item) Version() int64             { return i.version }
func (i *Item) CreatedAt() time.Time       { return i.createdAt }
func (i *Item) UpdatedAt() time.Time       { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}

// UpdateTerms applies partial updates to the listing's rental terms.
func (i *Item) UpdateTerms(
	name, description string,
	dailyRateCents, securityAmountCents int64,
	minRentalDays, maxRentalDays int,
) error {
	if name != "" {
		i.name = name
	}
	if description != "" {
		i.description = description
	}
	if dailyRateCents > 0 {
		i.dailyRateCents = dailyRateCents
	}
	if securityAmountCents >= 0 {
		i.securityAmountCents = securityAmountCents
	}
	if minRentalDays > 0 {
		i.minRentalDays = minRentalDays
	}
	if maxRentalDays > 0 {
		i.maxRentalDays = maxRentalDays
	}
	if i.maxRentalDays < i.minRentalDays {
		return domain.NewValidationError("maximum rental days cannot be below the minimum")
	}
	i.version++
	i.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate withdraws the listing from the marketplace.
func (i *Item) Deactivate() {
	i.active = false
	i.status = StatusInactive
	i.version++
	i.updatedAt = time.Now().UTC()
}

// SetStatus applies a new availability status.
func (i *Item) SetStatus(status AvailabilityStatus) {
	i.status = status
	i.version++
	i.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (i *Item) IncrementVersion() {
	i.version++
	i.updatedAt = time.Now().UTC()
}
