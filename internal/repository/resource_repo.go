package repository

import (
	"context"
	"errors"

	"bluereserve/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []string{string(domain.BookingPending), string(domain.BookingConfirmed)}

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Save(ctx context.Context, res *domain.Resource) error {
	m, err := toResourceModel(res)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(&m).Error; err != nil {
		return err
	}
	res.CreatedAt, res.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return nil
}

// FindByID loads the resource with its pending and confirmed bookings.
// Returns nil, nil when absent.
func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	var m resourceModel
	err := r.db.WithContext(ctx).
		Preload("Bookings", "status IN ?", activeStatuses).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainResource(m), nil
}

// FindByType lists active resources of typ with their active bookings.
func (r *ResourceRepository) FindByType(ctx context.Context, typ domain.ResourceType) ([]domain.Resource, error) {
	var ms []resourceModel
	err := r.db.WithContext(ctx).
		Preload("Bookings", "status IN ?", activeStatuses).
		Where("type = ? AND is_active = ?", string(typ), true).
		Order("name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResources(ms), nil
}

func (r *ResourceRepository) FindActive(ctx context.Context) ([]domain.Resource, error) {
	var ms []resourceModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResources(ms), nil
}

// FindAvailable lists active resources that still have room for one more
// booking in slot. A nil page returns every match ordered by name.
func (r *ResourceRepository) FindAvailable(ctx context.Context, slot domain.TimeSlot, page *domain.ResourcePage) ([]domain.Resource, int64, error) {
	taken := r.db.Model(&bookingModel{}).
		Select("COUNT(*)").
		Where("bookings.resource_id = resources.id").
		Where("bookings.status IN ?", activeStatuses).
		Where("bookings.start_time < ? AND bookings.end_time > ?", slot.End(), slot.Start())

	q := r.db.WithContext(ctx).Model(&resourceModel{}).
		Where("resources.is_active = ?", true).
		Where("resources.capacity > (?)", taken)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := q.Session(&gorm.Session{})
	if page == nil {
		list = list.Order("resources.name ASC")
	} else {
		list = list.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "resources", Name: page.SortBy.Column()},
			Desc:   page.Order == domain.SortDesc,
		}).
			Order("resources.id").
			Offset(page.Offset()).
			Limit(page.Limit)
	}

	var ms []resourceModel
	if err := list.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toDomainResources(ms), total, nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&resourceModel{}, "id = ?", id).Error
}

func toDomainResources(ms []resourceModel) []domain.Resource {
	out := make([]domain.Resource, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainResource(m))
	}
	return out
}
