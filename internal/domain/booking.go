package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ParseBookingStatus accepts the lowercase wire form only.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return st, nil
	}
	return "", ValidationError("Unknown booking status: " + s)
}

func (s BookingStatus) Ptr() *BookingStatus { return &s }

type Booking struct {
	ID         BookingID     `json:"id"`
	UserID     string        `json:"userId"`
	ResourceID string        `json:"resourceId"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	User     *User     `json:"user,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
}

// NewBooking starts a pending booking. Only the slot's instants are kept.
func NewBooking(id BookingID, userID, resourceID string, slot TimeSlot, notes string) *Booking {
	return &Booking{
		ID:         id,
		UserID:     userID,
		ResourceID: resourceID,
		StartTime:  slot.Start(),
		EndTime:    slot.End(),
		Status:     BookingPending,
		Notes:      notes,
	}
}

func (b *Booking) Confirm() error {
	if b.Status != BookingPending {
		return ErrOnlyPendingConfirmable
	}
	b.Status = BookingConfirmed
	return nil
}

func (b *Booking) Cancel() error {
	switch b.Status {
	case BookingCancelled:
		return ErrAlreadyCancelled
	case BookingCompleted:
		return ErrCancelCompleted
	}
	b.Status = BookingCancelled
	return nil
}

// Complete closes a confirmed booking once its end time has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != BookingConfirmed {
		return ErrOnlyConfirmedComplete
	}
	if b.EndTime.After(now) {
		return ErrNotEndedYet
	}
	b.Status = BookingCompleted
	return nil
}

// IsActive reports whether the booking consumes resource capacity.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsOverlapping is false for the same booking, for different resources and
// whenever either side is cancelled.
func (b *Booking) IsOverlapping(other *Booking) bool {
	return b.ResourceID == other.ResourceID &&
		!b.ID.Equal(other.ID) &&
		b.Status != BookingCancelled &&
		other.Status != BookingCancelled &&
		intervalsOverlap(b.StartTime, b.EndTime, other.StartTime, other.EndTime)
}

func (b *Booking) overlapsSlot(slot TimeSlot) bool {
	return intervalsOverlap(b.StartTime, b.EndTime, slot.Start(), slot.End())
}
