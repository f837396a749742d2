package booking

import (
	"context"
	"time"

	"bluereserve/internal/domain"
	"bluereserve/internal/repository"
)

// BookingRepository is the persistence the lifecycle engine needs.
type BookingRepository interface {
	FindByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error)
	FindByUserIDPaged(ctx context.Context, userID string, status *domain.BookingStatus, page domain.BookingPage) ([]domain.Booking, int64, error)
	CreateIfAvailable(ctx context.Context, b *domain.Booking, admit repository.AdmitFunc) error
	UpdateStatusIf(ctx context.Context, id domain.BookingID, expected, next domain.BookingStatus, at time.Time) (bool, error)
	FindConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]domain.Booking, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type ResourceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
}
