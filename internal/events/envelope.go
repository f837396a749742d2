package events

import (
	"time"

	"bluereserve/internal/domain"
)

// Envelope is the wire form of an event for the websocket feed and AMQP.
type Envelope struct {
	Type       string           `json:"type"`
	BookingID  domain.BookingID `json:"bookingId"`
	ResourceID string           `json:"resourceId"`
	OccurredAt time.Time        `json:"occurredAt"`
	Data       domain.Event     `json:"data"`
}

func NewEnvelope(e domain.Event) Envelope {
	return Envelope{
		Type:       e.EventName(),
		BookingID:  e.EventBookingID(),
		ResourceID: e.EventResourceID(),
		OccurredAt: occurredAt(e),
		Data:       e,
	}
}

func occurredAt(e domain.Event) time.Time {
	switch ev := e.(type) {
	case domain.BookingCreatedEvent:
		return ev.CreatedAt
	case domain.BookingConfirmedEvent:
		return ev.ConfirmedAt
	case domain.BookingCancelledEvent:
		return ev.CancelledAt
	case domain.BookingCompletedEvent:
		return ev.CompletedAt
	}
	return time.Now().UTC()
}
