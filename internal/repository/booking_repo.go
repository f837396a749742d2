package repository

import (
	"context"
	"errors"
	"time"

	"bluereserve/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Save inserts or updates b and refreshes its timestamps.
func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	b.CreatedAt, b.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return nil
}

// FindByID returns nil, nil when no booking has the id.
func (r *BookingRepository) FindByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

// FindByUserIDPaged filters by status within the user's own bookings.
func (r *BookingRepository) FindByUserIDPaged(ctx context.Context, userID string, status *domain.BookingStatus, page domain.BookingPage) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{}).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []bookingModel
	err := q.Session(&gorm.Session{}).Order(clause.OrderByColumn{
		Column: clause.Column{Name: page.SortBy.Column()},
		Desc:   page.Order == domain.SortDesc,
	}).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainBookings(ms), total, nil
}

func (r *BookingRepository) FindByResourceID(ctx context.Context, resourceID string) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("start_time ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

// FindOverlapping returns non-cancelled bookings of the resource that
// strictly overlap slot.
func (r *BookingRepository) FindOverlapping(ctx context.Context, resourceID string, slot domain.TimeSlot) ([]domain.Booking, error) {
	return findOverlapping(r.db.WithContext(ctx), resourceID, slot.Start(), slot.End())
}

func findOverlapping(db *gorm.DB, resourceID string, start, end time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	err := db.
		Where("resource_id = ?", resourceID).
		Where("status <> ?", string(domain.BookingCancelled)).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()).
		Order("start_time ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

func (r *BookingRepository) FindByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

// FindConfirmedEndedBefore lists at most limit confirmed bookings whose
// end time is not after t.
func (r *BookingRepository) FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time <= ?", string(domain.BookingConfirmed), t.UTC()).
		Order("end_time ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domain.BookingID) error {
	return r.db.WithContext(ctx).Delete(&bookingModel{}, "id = ?", id.String()).Error
}

// AdmitFunc decides whether b may be inserted given the locked resource
// and the active bookings that overlap b. A non-nil error aborts the insert.
type AdmitFunc func(res *domain.Resource, overlapping []domain.Booking) error

// CreateIfAvailable makes check-and-insert atomic: the resource row is
// locked for the length of the transaction, so concurrent creators for the
// same resource run one after another. Serialization failures are retried.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking, admit AdmitFunc) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rm resourceModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&rm, "id = ?", b.ResourceID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NotFoundError("Resource not found")
				}
				return err
			}

			overlapping, err := findOverlapping(tx, b.ResourceID, b.StartTime, b.EndTime)
			if err != nil {
				return err
			}

			if err := admit(toDomainResource(rm), overlapping); err != nil {
				return err
			}

			m := toBookingModel(b)
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			b.CreatedAt, b.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
			return nil
		})
	})
}

// UpdateStatusIf moves the booking to next only while it is still in
// expected. It reports whether a row changed.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id domain.BookingID, expected, next domain.BookingStatus, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id.String(), string(expected)).
		Updates(map[string]any{"status": string(next), "updated_at": at.UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
