package history

import (
	"context"

	"bluereserve/internal/domain"
)

type HistoryRepository interface {
	Save(ctx context.Context, h *domain.BookingHistory) error
	FindByBookingID(ctx context.Context, id domain.BookingID) ([]domain.BookingHistory, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.BookingHistory, error)
	FindByResourceID(ctx context.Context, resourceID string) ([]domain.BookingHistory, error)
	FindAll(ctx context.Context) ([]domain.BookingHistory, error)
}
