package booking

import (
	"context"
	"fmt"
	"time"

	"bluereserve/internal/domain"
	"bluereserve/internal/events"
	"bluereserve/internal/pkg/lock"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service is the booking lifecycle engine: it admits new bookings against
// resource capacity and drives confirm, cancel and complete transitions.
type Service struct {
	bookings  BookingRepository
	users     UserRepository
	resources ResourceRepository
	locker    lock.Locker
	events    events.Publisher
	log       logrus.FieldLogger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	users UserRepository,
	resources ResourceRepository,
	locker lock.Locker,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		bookings:  bookings,
		users:     users,
		resources: resources,
		locker:    locker,
		events:    publisher,
		log:       log,
		tracer:    otel.Tracer("bluereserve/booking"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (_ *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Create", trace.WithAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("resource.id", req.ResourceID),
	))
	defer func() { endSpan(span, err) }()

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resource, err := s.resources.FindByID(ctx, req.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("load resource: %w", err)
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}

	slot, err := domain.NewTimeSlotAt(req.StartTime, req.EndTime, s.now())
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "resource:"+resource.ID)
	if err != nil {
		return nil, fmt.Errorf("lock resource: %w", err)
	}
	defer unlock()

	b := domain.NewBooking(domain.NewBookingID(), user.ID, resource.ID, slot, req.Notes)
	err = s.bookings.CreateIfAvailable(ctx, b, func(res *domain.Resource, overlapping []domain.Booking) error {
		if len(overlapping) >= res.Capacity {
			return errOverlapping(len(overlapping))
		}
		res.Bookings = overlapping
		if !res.IsAvailable(slot) {
			return ErrNotAvailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  b.ID,
		"user_id":     b.UserID,
		"resource_id": b.ResourceID,
		"start_time":  b.StartTime,
		"end_time":    b.EndTime,
	}).Info("booking created")

	s.events.Publish(ctx, domain.BookingCreatedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		CreatedAt:  b.CreatedAt,
	})
	return b, nil
}

func (s *Service) ConfirmBooking(ctx context.Context, rawID string) (_ *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Confirm", trace.WithAttributes(attribute.String("booking.id", rawID)))
	defer func() { endSpan(span, err) }()

	b, prev, at, err := s.transition(ctx, rawID, (*domain.Booking).Confirm)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, domain.BookingConfirmedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		ResourceID:     b.ResourceID,
		PreviousStatus: prev,
		ConfirmedAt:    at,
	})
	return b, nil
}

func (s *Service) CancelBooking(ctx context.Context, rawID, reason string) (_ *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(attribute.String("booking.id", rawID)))
	defer func() { endSpan(span, err) }()

	b, prev, at, err := s.transition(ctx, rawID, (*domain.Booking).Cancel)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, domain.BookingCancelledEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		ResourceID:     b.ResourceID,
		PreviousStatus: prev,
		CancelledAt:    at,
		Reason:         reason,
	})
	return b, nil
}

// CompleteBooking closes a confirmed booking whose end time has passed.
func (s *Service) CompleteBooking(ctx context.Context, rawID string) (_ *domain.Booking, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Complete", trace.WithAttributes(attribute.String("booking.id", rawID)))
	defer func() { endSpan(span, err) }()

	now := s.now()
	b, prev, at, err := s.transition(ctx, rawID, func(b *domain.Booking) error { return b.Complete(now) })
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, domain.BookingCompletedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		ResourceID:     b.ResourceID,
		PreviousStatus: prev,
		CompletedAt:    at,
	})
	return b, nil
}

// transition loads the booking, applies step and writes the new status only
// if nobody changed it since the load. It returns the status seen before
// the step and the time of the write.
func (s *Service) transition(ctx context.Context, rawID string, step func(*domain.Booking) error) (*domain.Booking, domain.BookingStatus, time.Time, error) {
	b, err := s.load(ctx, rawID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	prev := b.Status
	if err := step(b); err != nil {
		return nil, "", time.Time{}, domain.AsConflict(err)
	}

	at := s.now()
	ok, err := s.bookings.UpdateStatusIf(ctx, b.ID, prev, b.Status, at)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("update booking status: %w", err)
	}
	if !ok {
		return nil, "", time.Time{}, ErrConcurrentUpdate
	}
	b.UpdatedAt = at

	s.log.WithFields(logrus.Fields{
		"booking_id":      b.ID,
		"previous_status": prev,
		"status":          b.Status,
	}).Info("booking status changed")

	return b, prev, at, nil
}

func (s *Service) GetBooking(ctx context.Context, rawID string) (*domain.Booking, error) {
	return s.load(ctx, rawID)
}

func (s *Service) load(ctx context.Context, rawID string) (*domain.Booking, error) {
	id, err := domain.ParseBookingID(rawID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// ListUserBookings returns every booking of the user when q.Page is nil and
// one page with its meta otherwise. The status filter never leaves the
// user's own bookings.
func (s *Service) ListUserBookings(ctx context.Context, userID string, q UserBookingsQuery) ([]domain.Booking, *domain.PageMeta, error) {
	var status *domain.BookingStatus
	if q.Status != "" {
		st, err := domain.ParseBookingStatus(q.Status)
		if err != nil {
			return nil, nil, err
		}
		status = &st
	}

	if q.Page != nil {
		items, total, err := s.bookings.FindByUserIDPaged(ctx, userID, status, *q.Page)
		if err != nil {
			return nil, nil, fmt.Errorf("list user bookings: %w", err)
		}
		meta := domain.NewPageMeta(q.Page.PageRequest, total)
		return items, &meta, nil
	}

	all, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list user bookings: %w", err)
	}
	if status == nil {
		return all, nil, nil
	}
	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if b.Status == *status {
			out = append(out, b)
		}
	}
	return out, nil, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
