package domain

import "time"

// Routing keys, shared by the in-process bus, the websocket feed and AMQP.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// Event is a booking lifecycle fact published after it has been persisted.
type Event interface {
	EventName() string
	EventBookingID() BookingID
	EventResourceID() string
}

type BookingCreatedEvent struct {
	BookingID  BookingID `json:"bookingId"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e BookingCreatedEvent) EventName() string         { return EventBookingCreated }
func (e BookingCreatedEvent) EventBookingID() BookingID { return e.BookingID }
func (e BookingCreatedEvent) EventResourceID() string   { return e.ResourceID }

type BookingConfirmedEvent struct {
	BookingID      BookingID     `json:"bookingId"`
	UserID         string        `json:"userId"`
	ResourceID     string        `json:"resourceId"`
	PreviousStatus BookingStatus `json:"previousStatus"`
	ConfirmedAt    time.Time     `json:"confirmedAt"`
}

func (e BookingConfirmedEvent) EventName() string         { return EventBookingConfirmed }
func (e BookingConfirmedEvent) EventBookingID() BookingID { return e.BookingID }
func (e BookingConfirmedEvent) EventResourceID() string   { return e.ResourceID }

type BookingCancelledEvent struct {
	BookingID      BookingID     `json:"bookingId"`
	UserID         string        `json:"userId"`
	ResourceID     string        `json:"resourceId"`
	PreviousStatus BookingStatus `json:"previousStatus"`
	CancelledAt    time.Time     `json:"cancelledAt"`
	Reason         string        `json:"reason,omitempty"`
}

func (e BookingCancelledEvent) EventName() string         { return EventBookingCancelled }
func (e BookingCancelledEvent) EventBookingID() BookingID { return e.BookingID }
func (e BookingCancelledEvent) EventResourceID() string   { return e.ResourceID }

type BookingCompletedEvent struct {
	BookingID      BookingID     `json:"bookingId"`
	UserID         string        `json:"userId"`
	ResourceID     string        `json:"resourceId"`
	PreviousStatus BookingStatus `json:"previousStatus"`
	CompletedAt    time.Time     `json:"completedAt"`
}

func (e BookingCompletedEvent) EventName() string         { return EventBookingCompleted }
func (e BookingCompletedEvent) EventBookingID() BookingID { return e.BookingID }
func (e BookingCompletedEvent) EventResourceID() string   { return e.ResourceID }
