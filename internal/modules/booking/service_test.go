package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"bluereserve/internal/domain"
	"bluereserve/internal/events"
	"bluereserve/internal/pkg/lock"
	"bluereserve/internal/pkg/logger"
	"bluereserve/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByUserIDPaged(ctx context.Context, userID string, status *domain.BookingStatus, page domain.BookingPage) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, userID, status, page)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

// CreateIfAvailable runs admit against the resource and overlapping
// bookings configured on the mock, like the real repository does inside
// its transaction.
func (m *MockBookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking, admit repository.AdmitFunc) error {
	args := m.Called(ctx, b)
	res := args.Get(0).(*domain.Resource)
	overlapping := args.Get(1).([]domain.Booking)
	if err := admit(res, overlapping); err != nil {
		return err
	}
	if err := args.Error(2); err != nil {
		return err
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (m *MockBookingRepository) UpdateStatusIf(ctx context.Context, id domain.BookingID, expected, next domain.BookingStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

type eventLog struct {
	mu  sync.Mutex
	got []domain.Event
}

func (l *eventLog) handle(_ context.Context, e domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, e)
	return nil
}

func (l *eventLog) all() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Event(nil), l.got...)
}

type fixture struct {
	svc       *Service
	bookings  *MockBookingRepository
	users     *MockUserRepository
	resources *MockResourceRepository
	events    *eventLog
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  new(MockBookingRepository),
		users:     new(MockUserRepository),
		resources: new(MockResourceRepository),
		events:    &eventLog{},
	}
	bus := events.NewBus(0, 0, logger.Discard())
	bus.Subscribe("test", f.events.handle)
	f.svc = NewService(f.bookings, f.users, f.resources, lock.NewLocal(), bus, logger.Discard())
	return f
}

var (
	testUser = &domain.User{ID: "user-1", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}
)

func futureHour(offset time.Duration) (time.Time, time.Time) {
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour).Add(offset)
	return start, start.Add(time.Hour)
}

func existingBooking(resourceID string, status domain.BookingStatus) *domain.Booking {
	start, end := futureHour(0)
	return &domain.Booking{
		ID:         domain.NewBookingID(),
		UserID:     testUser.ID,
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := domain.NewResource("room-1", "Room 1", domain.ResourceMeetingRoom, 1)
	start, end := futureHour(0)

	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "room-1").Return(res, nil)
	f.bookings.On("CreateIfAvailable", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Return(res, []domain.Booking{}, nil)

	b, err := f.svc.CreateBooking(ctx, CreateBookingRequest{
		UserID: "user-1", ResourceID: "room-1", StartTime: start, EndTime: end, Notes: "standup",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.False(t, b.ID.IsZero())
	assert.Equal(t, "standup", b.Notes)

	evs := f.events.all()
	require.Len(t, evs, 1)
	created, ok := evs[0].(domain.BookingCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, b.ID, created.BookingID)
	assert.True(t, created.StartTime.Equal(start))
	assert.True(t, created.EndTime.Equal(end))
	assert.False(t, created.CreatedAt.IsZero())

	f.bookings.AssertExpectations(t)
}

func TestCreateBooking_CapacityTwoAllowsSecond(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := domain.NewResource("hall", "Hall", domain.ResourceConferenceHall, 2)
	first := existingBooking("hall", domain.BookingConfirmed)

	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "hall").Return(res, nil)
	f.bookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(res, []domain.Booking{*first}, nil)

	b, err := f.svc.CreateBooking(ctx, CreateBookingRequest{
		UserID: "user-1", ResourceID: "hall", StartTime: first.StartTime, EndTime: first.EndTime,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
}

func TestCreateBooking_ConflictWhenFull(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := domain.NewResource("room-1", "Room 1", domain.ResourceMeetingRoom, 1)
	taken := existingBooking("room-1", domain.BookingPending)

	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "room-1").Return(res, nil)
	f.bookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(res, []domain.Booking{*taken}, nil)

	_, err := f.svc.CreateBooking(ctx, CreateBookingRequest{
		UserID: "user-1", ResourceID: "room-1", StartTime: taken.StartTime.Add(30 * time.Minute), EndTime: taken.EndTime.Add(time.Hour),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Resource is not available for the requested time slot. Found 1 overlapping bookings.", err.Error())
	assert.Empty(t, f.events.all())
}

func TestCreateBooking_InactiveResourceConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := domain.NewResource("van", "Van", domain.ResourceVehicle, 3)
	res.IsActive = false
	start, end := futureHour(0)

	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "van").Return(res, nil)
	f.bookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Return(res, []domain.Booking{}, nil)

	_, err := f.svc.CreateBooking(ctx, CreateBookingRequest{UserID: "user-1", ResourceID: "van", StartTime: start, EndTime: end})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Resource is not available for the requested time slot", err.Error())
}

func TestCreateBooking_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	start, end := futureHour(0)

	f.users.On("FindByID", mock.Anything, "ghost").Return(nil, nil)
	_, err := f.svc.CreateBooking(ctx, CreateBookingRequest{UserID: "ghost", ResourceID: "room-1", StartTime: start, EndTime: end})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "User not found", err.Error())

	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "nowhere").Return(nil, nil)
	_, err = f.svc.CreateBooking(ctx, CreateBookingRequest{UserID: "user-1", ResourceID: "nowhere", StartTime: start, EndTime: end})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Resource not found", err.Error())

	f.bookings.AssertNotCalled(t, "CreateIfAvailable", mock.Anything, mock.Anything)
}

func TestCreateBooking_InvalidSlots(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := domain.NewResource("room-1", "Room 1", domain.ResourceMeetingRoom, 1)
	f.users.On("FindByID", mock.Anything, "user-1").Return(testUser, nil)
	f.resources.On("FindByID", mock.Anything, "room-1").Return(res, nil)

	now := time.Now().UTC()
	cases := []struct {
		name       string
		start, end time.Time
		message    string
	}{
		{"past", now.Add(-2 * time.Hour), now.Add(-time.Hour), "Cannot book in the past"},
		{"too far", now.AddDate(1, 0, 7), now.AddDate(1, 0, 7).Add(time.Hour), "Cannot book more than 1 year in advance"},
		{"inverted", now.Add(2 * time.Hour), now.Add(time.Hour), "Start time must be before end time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(ctx, CreateBookingRequest{UserID: "user-1", ResourceID: "room-1", StartTime: tc.start, EndTime: tc.end})
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tc.message, err.Error())
		})
	}
	f.bookings.AssertNotCalled(t, "CreateIfAvailable", mock.Anything, mock.Anything)
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := existingBooking("room-1", domain.BookingPending)

	f.bookings.On("FindByID", mock.Anything, b.ID).Return(b, nil).Once()
	f.bookings.On("UpdateStatusIf", mock.Anything, b.ID, domain.BookingPending, domain.BookingConfirmed).Return(true, nil).Once()

	got, err := f.svc.ConfirmBooking(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	evs := f.events.all()
	require.Len(t, evs, 1)
	confirmed := evs[0].(domain.BookingConfirmedEvent)
	assert.Equal(t, domain.BookingPending, confirmed.PreviousStatus)
	assert.False(t, confirmed.ConfirmedAt.IsZero())
}

func TestConfirmBooking_NotPendingIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := existingBooking("room-1", domain.BookingConfirmed)
	f.bookings.On("FindByID", mock.Anything, b.ID).Return(b, nil)

	_, err := f.svc.ConfirmBooking(ctx, b.ID.String())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Only pending bookings can be confirmed", err.Error())
	f.bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.events.all())
}

func TestConfirmBooking_ConcurrentChange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := existingBooking("room-1", domain.BookingPending)
	f.bookings.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, b.ID, domain.BookingPending, domain.BookingConfirmed).Return(false, nil)

	_, err := f.svc.ConfirmBooking(ctx, b.ID.String())
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Empty(t, f.events.all())
}

func TestConfirmBooking_UnknownAndEmptyID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("FindByID", mock.Anything, domain.BookingID("missing")).Return(nil, nil)

	_, err := f.svc.ConfirmBooking(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ConfirmBooking(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCancelBooking_CarriesPreviousStatusAndReason(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := existingBooking("room-1", domain.BookingConfirmed)
	f.bookings.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, b.ID, domain.BookingConfirmed, domain.BookingCancelled).Return(true, nil)

	got, err := f.svc.CancelBooking(ctx, b.ID.String(), "Emergency")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	cancelled := f.events.all()[0].(domain.BookingCancelledEvent)
	assert.Equal(t, domain.BookingConfirmed, cancelled.PreviousStatus)
	assert.Equal(t, "Emergency", cancelled.Reason)
}

func TestCancelBooking_InvalidStates(t *testing.T) {
	for status, msg := range map[domain.BookingStatus]string{
		domain.BookingCancelled: "Booking is already cancelled",
		domain.BookingCompleted: "Cannot cancel a completed booking",
	} {
		f := newFixture()
		ctx := context.Background()
		b := existingBooking("room-1", status)
		f.bookings.On("FindByID", mock.Anything, b.ID).Return(b, nil)

		_, err := f.svc.CancelBooking(ctx, b.ID.String(), "")
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, msg, err.Error())
	}
}

func TestListUserBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pending := existingBooking("r", domain.BookingPending)
	confirmed := existingBooking("r", domain.BookingConfirmed)
	f.bookings.On("FindByUserID", mock.Anything, "user-1").Return([]domain.Booking{*pending, *confirmed}, nil)

	all, meta, err := f.svc.ListUserBookings(ctx, "user-1", UserBookingsQuery{})
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Len(t, all, 2)

	only, _, err := f.svc.ListUserBookings(ctx, "user-1", UserBookingsQuery{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, confirmed.ID, only[0].ID)

	_, _, err = f.svc.ListUserBookings(ctx, "user-1", UserBookingsQuery{Status: "weird"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListUserBookings_Paged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	page := domain.BookingPage{
		PageRequest: domain.PageRequest{Page: 2, Limit: 1, Order: domain.SortDesc},
		SortBy:      domain.BookingSortCreatedAt,
	}
	b := existingBooking("r", domain.BookingPending)
	f.bookings.On("FindByUserIDPaged", mock.Anything, "user-1", domain.BookingPending.Ptr(), page).
		Return([]domain.Booking{*b}, int64(3), nil)

	items, meta, err := f.svc.ListUserBookings(ctx, "user-1", UserBookingsQuery{Status: "pending", Page: &page})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	require.NotNil(t, meta)
	assert.Equal(t, domain.PageMeta{Page: 2, Limit: 1, Total: 3, TotalPages: 3, HasNext: true, HasPrev: true}, *meta)
}

func TestSweeper_CompletesEndedBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ended := existingBooking("r", domain.BookingConfirmed)
	ended.StartTime = time.Now().UTC().Add(-2 * time.Hour)
	ended.EndTime = time.Now().UTC().Add(-time.Hour)
	raced := existingBooking("r", domain.BookingConfirmed)
	raced.StartTime, raced.EndTime = ended.StartTime, ended.EndTime

	f.bookings.On("FindConfirmedEndedBefore", mock.Anything, 10).Return([]domain.Booking{*ended, *raced}, nil)
	f.bookings.On("FindByID", mock.Anything, ended.ID).Return(ended, nil)
	f.bookings.On("FindByID", mock.Anything, raced.ID).Return(raced, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, ended.ID, domain.BookingConfirmed, domain.BookingCompleted).Return(true, nil)
	f.bookings.On("UpdateStatusIf", mock.Anything, raced.ID, domain.BookingConfirmed, domain.BookingCompleted).Return(false, nil)

	sw := NewSweeper(f.svc, SweeperConfig{Interval: time.Minute, BatchSize: 10}, logger.Discard())
	n, err := sw.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	evs := f.events.all()
	require.Len(t, evs, 1)
	completed := evs[0].(domain.BookingCompletedEvent)
	assert.Equal(t, ended.ID, completed.BookingID)
	assert.Equal(t, domain.BookingConfirmed, completed.PreviousStatus)
}

func TestSweeper_StopWaitsForRunningSweep(t *testing.T) {
	f := newFixture()
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	f.bookings.On("FindConfirmedEndedBefore", mock.Anything, 5).
		Run(func(mock.Arguments) {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
		}).
		Return([]domain.Booking{}, nil)

	sw := NewSweeper(f.svc, SweeperConfig{Interval: 5 * time.Millisecond, BatchSize: 5}, logger.Discard())
	stop := sw.Start(context.Background())

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("sweep did not start")
	}

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while a sweep was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not return after the sweep finished")
	}
	assert.NotPanics(t, stop)
}
