package booking

import (
	"fmt"

	"bluereserve/internal/domain"
)

var (
	ErrUserNotFound     = domain.NotFoundError("User not found")
	ErrResourceNotFound = domain.NotFoundError("Resource not found")
	ErrBookingNotFound  = domain.NotFoundError("Booking not found")

	// The booking changed between load and write; the caller may retry.
	ErrConcurrentUpdate = domain.ConflictError("Booking was modified concurrently, please retry")

	ErrNotAvailable = domain.ConflictError("Resource is not available for the requested time slot")
)

func errOverlapping(n int) error {
	return domain.ConflictError(fmt.Sprintf(
		"Resource is not available for the requested time slot. Found %d overlapping bookings.", n))
}
