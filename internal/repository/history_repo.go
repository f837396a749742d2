package repository

import (
	"context"

	"bluereserve/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository is append-only: there is no update or delete.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Save(ctx context.Context, h *domain.BookingHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	m, err := toHistoryModel(h)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	h.CreatedAt = m.CreatedAt.UTC()
	return nil
}

func (r *HistoryRepository) FindByBookingID(ctx context.Context, id domain.BookingID) ([]domain.BookingHistory, error) {
	return r.find(ctx, "booking_id = ?", id.String())
}

func (r *HistoryRepository) FindByUserID(ctx context.Context, userID string) ([]domain.BookingHistory, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *HistoryRepository) FindByResourceID(ctx context.Context, resourceID string) ([]domain.BookingHistory, error) {
	return r.find(ctx, "resource_id = ?", resourceID)
}

func (r *HistoryRepository) FindAll(ctx context.Context) ([]domain.BookingHistory, error) {
	return r.find(ctx, "1 = 1")
}

// Entries come back oldest first.
func (r *HistoryRepository) find(ctx context.Context, where string, args ...any) ([]domain.BookingHistory, error) {
	var ms []historyModel
	err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookingHistory, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainHistory(m))
	}
	return out, nil
}
