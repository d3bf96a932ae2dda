package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so delivery layers can map it to a
// transport status without inspecting message text.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindValidation   ErrorKind = "validation"
	KindInvalidState ErrorKind = "invalid_state"
	KindUnavailable  ErrorKind = "unavailable"
	KindOutOfBounds  ErrorKind = "out_of_bounds"
	KindAlreadyRated ErrorKind = "already_rated"
	KindSelfBooking  ErrorKind = "self_booking"
	KindConflict     ErrorKind = "conflict"
)

// Error is a business-rule failure. Infrastructure failures are plain wrapped
// errors and never carry an ErrorKind, so callers can always distinguish
// "not allowed" from "try again".
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewNotFoundError reports that a resource does not exist.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewForbiddenError reports that the caller is not allowed to act on the resource.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewInvalidStateError reports a status transition that is not a legal edge,
// or one the caller's role may not perform.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewUnavailableError reports that a requested date range overlaps a blocking booking.
func NewUnavailableError(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// NewOutOfBoundsError reports a rental duration outside the item's day bounds.
func NewOutOfBoundsError(message string) *Error {
	return &Error{Kind: KindOutOfBounds, Message: message}
}

// NewAlreadyRatedError reports a repeated rating attempt by the same role.
func NewAlreadyRatedError(role string) *Error {
	return &Error{Kind: KindAlreadyRated, Message: fmt.Sprintf("booking already rated by %s", role)}
}

// NewSelfBookingError reports an attempt by an owner to book their own item.
func NewSelfBookingError() *Error {
	return &Error{Kind: KindSelfBooking, Message: "cannot book your own item"}
}

// NewConflictError reports a concurrent-modification conflict.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the error's kind and true when err is a domain error.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
