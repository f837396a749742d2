package history

import (
	"context"

	"bluereserve/internal/domain"
)

type Service struct {
	repo HistoryRepository
}

func NewService(repo HistoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ForBooking(ctx context.Context, rawID string) ([]domain.BookingHistory, error) {
	id, err := domain.ParseBookingID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByBookingID(ctx, id)
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]domain.BookingHistory, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) ForResource(ctx context.Context, resourceID string) ([]domain.BookingHistory, error) {
	return s.repo.FindByResourceID(ctx, resourceID)
}

func (s *Service) All(ctx context.Context) ([]domain.BookingHistory, error) {
	return s.repo.FindAll(ctx)
}
