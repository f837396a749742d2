package domain

import "github.com/google/uuid"

// BookingID identifies a booking. IDs are either generated once by
// NewBookingID or parsed from a caller-supplied, non-empty string.
type BookingID string

func NewBookingID() BookingID {
	return BookingID(uuid.NewString())
}

// ParseBookingID keeps s verbatim. An empty string is rejected instead of
// silently minting a fresh id.
func ParseBookingID(s string) (BookingID, error) {
	if s == "" {
		return "", ErrEmptyBookingID
	}
	return BookingID(s), nil
}

func (id BookingID) String() string { return string(id) }

func (id BookingID) Equal(other BookingID) bool { return id == other }

func (id BookingID) IsZero() bool { return id == "" }
