package domain

import "errors"

// Error kinds. Every error produced by the domain and the lifecycle engine
// matches exactly one of these through errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Error carries a caller-facing message together with its kind and an
// optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func ValidationError(msg string) error { return newError(ErrValidation, msg) }

func NotFoundError(msg string) error { return newError(ErrNotFound, msg) }

func ConflictError(msg string) error { return newError(ErrConflict, msg) }

// AsConflict re-labels an InvalidState error as a Conflict, keeping the
// original message and cause chain. Any other error is returned as is.
func AsConflict(err error) error {
	if err == nil || !errors.Is(err, ErrInvalidState) {
		return err
	}
	return &Error{Kind: ErrConflict, Message: err.Error(), Cause: err}
}

// TimeSlot validation failures.
var (
	ErrStartNotBeforeEnd = newError(ErrValidation, "Start time must be before end time")
	ErrSlotInPast        = newError(ErrValidation, "Cannot book in the past")
	ErrSlotTooFarAhead   = newError(ErrValidation, "Cannot book more than 1 year in advance")
)

// Booking state machine violations.
var (
	ErrOnlyPendingConfirmable = newError(ErrInvalidState, "Only pending bookings can be confirmed")
	ErrAlreadyCancelled       = newError(ErrInvalidState, "Booking is already cancelled")
	ErrCancelCompleted        = newError(ErrInvalidState, "Cannot cancel a completed booking")
	ErrOnlyConfirmedComplete  = newError(ErrInvalidState, "Only confirmed bookings can be completed")
	ErrNotEndedYet            = newError(ErrInvalidState, "Booking has not ended yet")
)

var ErrEmptyBookingID = newError(ErrValidation, "Booking id must not be empty")
