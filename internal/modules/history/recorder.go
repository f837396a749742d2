package history

import (
	"context"
	"fmt"
	"time"

	"bluereserve/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	reasonCreated   = "Booking created"
	reasonConfirmed = "Booking confirmed"
	reasonCancelled = "Booking cancelled"
	reasonCompleted = "Booking completed"
)

// Recorder turns lifecycle events into audit rows. Subscribe Handle to the
// event bus.
type Recorder struct {
	repo HistoryRepository
	log  logrus.FieldLogger
}

func NewRecorder(repo HistoryRepository, log logrus.FieldLogger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) Handle(ctx context.Context, e domain.Event) error {
	h := entryFor(e)
	if h == nil {
		return nil
	}
	if err := r.repo.Save(ctx, h); err != nil {
		return fmt.Errorf("record %s for booking %s: %w", e.EventName(), e.EventBookingID(), err)
	}

	r.log.WithFields(logrus.Fields{
		"booking_id": h.BookingID,
		"new_status": h.NewStatus,
	}).Debug("booking history recorded")
	return nil
}

func entryFor(e domain.Event) *domain.BookingHistory {
	switch ev := e.(type) {
	case domain.BookingCreatedEvent:
		return domain.NewBookingHistory(ev.BookingID, ev.UserID, ev.ResourceID,
			nil, domain.BookingPending, reasonCreated, map[string]any{
				"startTime": stamp(ev.StartTime),
				"endTime":   stamp(ev.EndTime),
				"createdAt": stamp(ev.CreatedAt),
			})
	case domain.BookingConfirmedEvent:
		return domain.NewBookingHistory(ev.BookingID, ev.UserID, ev.ResourceID,
			ev.PreviousStatus.Ptr(), domain.BookingConfirmed, reasonConfirmed, map[string]any{
				"confirmedAt": stamp(ev.ConfirmedAt),
			})
	case domain.BookingCancelledEvent:
		reason := ev.Reason
		if reason == "" {
			reason = reasonCancelled
		}
		return domain.NewBookingHistory(ev.BookingID, ev.UserID, ev.ResourceID,
			ev.PreviousStatus.Ptr(), domain.BookingCancelled, reason, map[string]any{
				"cancelledAt": stamp(ev.CancelledAt),
			})
	case domain.BookingCompletedEvent:
		return domain.NewBookingHistory(ev.BookingID, ev.UserID, ev.ResourceID,
			ev.PreviousStatus.Ptr(), domain.BookingCompleted, reasonCompleted, map[string]any{
				"completedAt": stamp(ev.CompletedAt),
			})
	}
	return nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
