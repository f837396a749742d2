package domain

import "time"

// BookingHistory is one append-only audit row per lifecycle transition.
// PreviousStatus is nil only for the creation entry.
type BookingHistory struct {
	ID             string         `json:"id"`
	BookingID      BookingID      `json:"bookingId"`
	UserID         string         `json:"userId"`
	ResourceID     string         `json:"resourceId"`
	PreviousStatus *BookingStatus `json:"previousStatus"`
	NewStatus      BookingStatus  `json:"newStatus"`
	Reason         string         `json:"reason,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func NewBookingHistory(bookingID BookingID, userID, resourceID string, prev *BookingStatus, next BookingStatus, reason string, metadata map[string]any) *BookingHistory {
	return &BookingHistory{
		BookingID:      bookingID,
		UserID:         userID,
		ResourceID:     resourceID,
		PreviousStatus: prev,
		NewStatus:      next,
		Reason:         reason,
		Metadata:       metadata,
	}
}
