package history

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bluereserve/internal/database"
	"bluereserve/internal/domain"
	"bluereserve/internal/events"
	"bluereserve/internal/modules/booking"
	"bluereserve/internal/pkg/lock"
	"bluereserve/internal/pkg/logger"
	"bluereserve/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:history_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.OpenSQLite(dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type engine struct {
	bookings *booking.Service
	history  *Service
	user     *domain.User
	resource *domain.Resource
}

// newEngine wires the booking service and the recorder through a
// synchronous bus so history rows exist as soon as a call returns.
func newEngine(t *testing.T) *engine {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	resources := repository.NewResourceRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	user := &domain.User{ID: uuid.NewString(), Email: "lee@example.com", FirstName: "Lee", LastName: "Moss"}
	require.NoError(t, users.Save(ctx, user))
	res := domain.NewResource(uuid.NewString(), "Desk 4", domain.ResourceWorkspace, 1)
	require.NoError(t, resources.Save(ctx, res))

	bus := events.NewBus(0, 0, logger.Discard())
	bus.Subscribe("history", NewRecorder(historyRepo, logger.Discard()).Handle)

	svc := booking.NewService(repository.NewBookingRepository(db), users, resources, lock.NewLocal(), bus, logger.Discard())
	return &engine{bookings: svc, history: NewService(historyRepo), user: user, resource: res}
}

func (e *engine) book(t *testing.T) *domain.Booking {
	t.Helper()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	b, err := e.bookings.CreateBooking(context.Background(), booking.CreateBookingRequest{
		UserID: e.user.ID, ResourceID: e.resource.ID, StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	return b
}

func TestRecorder_CreateConfirmCancel(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	b := e.book(t)

	_, err := e.bookings.ConfirmBooking(ctx, b.ID.String())
	require.NoError(t, err)
	_, err = e.bookings.CancelBooking(ctx, b.ID.String(), "")
	require.NoError(t, err)

	entries, err := e.history.ForBooking(ctx, b.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	created := entries[0]
	assert.Nil(t, created.PreviousStatus)
	assert.Equal(t, domain.BookingPending, created.NewStatus)
	assert.Equal(t, "Booking created", created.Reason)
	assert.Equal(t, b.StartTime.Format(time.RFC3339Nano), created.Metadata["startTime"])
	assert.Contains(t, created.Metadata, "createdAt")

	confirmed := entries[1]
	require.NotNil(t, confirmed.PreviousStatus)
	assert.Equal(t, domain.BookingPending, *confirmed.PreviousStatus)
	assert.Equal(t, "Booking confirmed", confirmed.Reason)
	assert.Contains(t, confirmed.Metadata, "confirmedAt")

	cancelled := entries[2]
	require.NotNil(t, cancelled.PreviousStatus)
	assert.Equal(t, domain.BookingConfirmed, *cancelled.PreviousStatus)
	assert.Equal(t, domain.BookingCancelled, cancelled.NewStatus)
	assert.Equal(t, "Booking cancelled", cancelled.Reason)
	assert.Contains(t, cancelled.Metadata, "cancelledAt")
}

func TestRecorder_KeepsCancellationReason(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	b := e.book(t)

	_, err := e.bookings.CancelBooking(ctx, b.ID.String(), "Emergency")
	require.NoError(t, err)

	entries, err := e.history.ForUser(ctx, e.user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Emergency", entries[1].Reason)
	assert.Equal(t, domain.BookingPending, *entries[1].PreviousStatus)

	byResource, err := e.history.ForResource(ctx, e.resource.ID)
	require.NoError(t, err)
	assert.Len(t, byResource, 2)
}

func TestRecorder_FailedTransitionLeavesNoEntry(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	b := e.book(t)

	_, err := e.bookings.CancelBooking(ctx, b.ID.String(), "")
	require.NoError(t, err)
	_, err = e.bookings.ConfirmBooking(ctx, b.ID.String())
	require.ErrorIs(t, err, domain.ErrConflict)

	entries, err := e.history.ForBooking(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEntryFor_Completed(t *testing.T) {
	at := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	h := entryFor(domain.BookingCompletedEvent{
		BookingID:      "b-1",
		UserID:         "u-1",
		ResourceID:     "r-1",
		PreviousStatus: domain.BookingConfirmed,
		CompletedAt:    at,
	})

	require.NotNil(t, h)
	assert.Equal(t, domain.BookingCompleted, h.NewStatus)
	assert.Equal(t, domain.BookingConfirmed, *h.PreviousStatus)
	assert.Equal(t, "Booking completed", h.Reason)
	assert.Equal(t, "2030-05-01T12:00:00Z", h.Metadata["completedAt"])
}

func TestService_ForBookingRejectsEmptyID(t *testing.T) {
	e := newEngine(t)
	_, err := e.history.ForBooking(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
