package resource

import (
	"context"
	"fmt"
	"time"

	"bluereserve/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	repo ResourceRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(repo ResourceRepository, log logrus.FieldLogger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateResource(ctx context.Context, req CreateResourceRequest) (*domain.Resource, error) {
	typ, err := domain.ParseResourceType(req.Type)
	if err != nil {
		return nil, err
	}
	capacity := domain.DefaultCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	res := domain.NewResource(uuid.NewString(), req.Name, typ, capacity)
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}
	res.Description = req.Description
	res.PricePerHour = req.PricePerHour
	res.Metadata = req.Metadata

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"resource_id": res.ID,
		"type":        res.Type,
		"capacity":    res.Capacity,
	}).Info("resource created")
	return res, nil
}

func (s *Service) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load resource: %w", err)
	}
	if res == nil {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

// Availability reports whether one more booking fits in [start, end) and
// how many places are left.
func (s *Service) Availability(ctx context.Context, id string, start, end time.Time) (*AvailabilityResponse, error) {
	res, err := s.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	slot, err := domain.NewTimeSlotAt(start, end, s.now())
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		ResourceID:        res.ID,
		StartTime:         slot.Start(),
		EndTime:           slot.End(),
		Available:         res.IsAvailable(slot),
		AvailableCapacity: res.AvailableCapacity(slot),
	}, nil
}

// ListAvailableResources returns active resources with room in the slot.
// Filtering by type checks each resource in process; otherwise the
// database does the counting. Meta is nil when q.Page is nil.
func (s *Service) ListAvailableResources(ctx context.Context, q AvailableQuery) ([]domain.Resource, *domain.PageMeta, error) {
	slot, err := domain.NewTimeSlotAt(q.StartTime, q.EndTime, s.now())
	if err != nil {
		return nil, nil, err
	}

	if q.Type == "" {
		items, total, err := s.repo.FindAvailable(ctx, slot, q.Page)
		if err != nil {
			return nil, nil, fmt.Errorf("find available resources: %w", err)
		}
		if q.Page == nil {
			return items, nil, nil
		}
		meta := domain.NewPageMeta(q.Page.PageRequest, total)
		return items, &meta, nil
	}

	typ, err := domain.ParseResourceType(q.Type)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := s.repo.FindByType(ctx, typ)
	if err != nil {
		return nil, nil, fmt.Errorf("find resources by type: %w", err)
	}
	items := make([]domain.Resource, 0, len(candidates))
	for i := range candidates {
		if candidates[i].IsAvailable(slot) {
			items = append(items, candidates[i])
		}
	}

	if q.Page == nil {
		return items, nil, nil
	}
	domain.SortResources(items, q.Page.SortBy, q.Page.Order)
	from, to := q.Page.Window(len(items))
	meta := domain.NewPageMeta(q.Page.PageRequest, int64(len(items)))
	return items[from:to], &meta, nil
}
