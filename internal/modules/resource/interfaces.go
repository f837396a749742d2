package resource

import (
	"context"

	"bluereserve/internal/domain"
)

type ResourceRepository interface {
	Save(ctx context.Context, res *domain.Resource) error
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	FindByType(ctx context.Context, typ domain.ResourceType) ([]domain.Resource, error)
	FindAvailable(ctx context.Context, slot domain.TimeSlot, page *domain.ResourcePage) ([]domain.Resource, int64, error)
}
