package booking

import (
	"fmt"

	"github.com/lendhive/service-rental/internal/domain/item"
)

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDisputed   Status = "disputed"
)

// Role identifies who is acting on a booking. Lender and borrower are derived
// by comparing the requester's identity against the booking's stored parties;
// admin comes from the caller's platform role.
type Role string

const (
	RoleLender   Role = "lender"
	RoleBorrower Role = "borrower"
	RoleAdmin    Role = "admin"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusDisputed},
	StatusDisputed:   {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// edgeRoles gates each transition by the roles allowed to perform it.
var edgeRoles = map[Status]map[Status][]Role{
	StatusPending: {
		StatusConfirmed: {RoleLender},
		StatusCancelled: {RoleLender, RoleBorrower},
	},
	StatusConfirmed: {
		StatusInProgress: {RoleLender, RoleBorrower},
		StatusCancelled:  {RoleLender, RoleBorrower},
	},
	StatusInProgress: {
		StatusCompleted: {RoleLender, RoleBorrower},
		StatusDisputed:  {RoleLender, RoleBorrower},
	},
	StatusDisputed: {
		StatusCompleted: {RoleAdmin},
		StatusCancelled: {RoleAdmin},
	},
}

// itemStatusByTarget maps a booking status to the item availability status it
// implies. Pending and disputed leave the item untouched.
var itemStatusByTarget = map[Status]item.AvailabilityStatus{
	StatusConfirmed:  item.StatusBooked,
	StatusInProgress: item.StatusInTransit,
	StatusCompleted:  item.StatusAvailable,
	StatusCancelled:  item.StatusAvailable,
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// RoleAllowed returns true if the role may perform the transition to target.
func (s Status) RoleAllowed(target Status, role Role) bool {
	for _, r := range edgeRoles[s][target] {
		if r == role {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// Blocks returns true if a booking in this status reserves the item's calendar.
func (s Status) Blocks() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// ItemStatus returns the item availability status this booking status implies,
// and false when the item should be left unchanged.
func (s Status) ItemStatus() (item.AvailabilityStatus, bool) {
	is, ok := itemStatusByTarget[s]
	return is, ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// BlockingStatuses is the set of statuses that reserve an item's calendar.
func BlockingStatuses() []Status {
	return []Status{StatusConfirmed, StatusInProgress}
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
