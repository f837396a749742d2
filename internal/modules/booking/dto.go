package booking

import (
	"time"

	"bluereserve/internal/domain"
)

type CreateBookingRequest struct {
	UserID     string    `json:"userId" validate:"required"`
	ResourceID string    `json:"resourceId" validate:"required"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required"`
	Notes      string    `json:"notes" validate:"max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// UserBookingsQuery filters a user's bookings. Page is nil for an
// unpaginated listing.
type UserBookingsQuery struct {
	Status string
	Page   *domain.BookingPage
}
