package repository

import (
	"encoding/json"
	"time"

	"bluereserve/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type userModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;size:100;not null"`
	LastName  string    `gorm:"column:last_name;size:100;not null"`
	Phone     *string   `gorm:"column:phone;size:32"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type resourceModel struct {
	ID           string         `gorm:"column:id;primaryKey;size:36"`
	Name         string         `gorm:"column:name;size:255;not null"`
	Type         string         `gorm:"column:type;size:32;not null;index"`
	Capacity     int            `gorm:"column:capacity;not null"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	Description  *string        `gorm:"column:description"`
	PricePerHour *float64       `gorm:"column:price_per_hour"`
	Metadata     datatypes.JSON `gorm:"column:metadata"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`

	Bookings []bookingModel `gorm:"foreignKey:ResourceID"`
}

func (resourceModel) TableName() string { return "resources" }

type bookingModel struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	UserID     string    `gorm:"column:user_id;size:36;not null;index"`
	ResourceID string    `gorm:"column:resource_id;size:36;not null;index:idx_bookings_resource_time,priority:1"`
	StartTime  time.Time `gorm:"column:start_time;not null;index:idx_bookings_resource_time,priority:2"`
	EndTime    time.Time `gorm:"column:end_time;not null;index:idx_bookings_resource_time,priority:3"`
	Status     string    `gorm:"column:status;size:16;not null;index"`
	Notes      *string   `gorm:"column:notes"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type historyModel struct {
	ID             string         `gorm:"column:id;primaryKey;size:36"`
	BookingID      string         `gorm:"column:booking_id;size:36;not null;index"`
	UserID         string         `gorm:"column:user_id;size:36;not null;index"`
	ResourceID     string         `gorm:"column:resource_id;size:36;not null;index"`
	PreviousStatus *string        `gorm:"column:previous_status;size:16"`
	NewStatus      string         `gorm:"column:new_status;size:16;not null"`
	Reason         *string        `gorm:"column:reason"`
	Metadata       datatypes.JSON `gorm:"column:metadata"`
	CreatedAt      time.Time      `gorm:"column:created_at;index"`
}

func (historyModel) TableName() string { return "booking_history" }

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &resourceModel{}, &bookingModel{}, &historyModel{})
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toJSON(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func fromJSON(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     derefString(m.Phone),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     optString(u.Phone),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:         domain.BookingID(m.ID),
		UserID:     m.UserID,
		ResourceID: m.ResourceID,
		StartTime:  m.StartTime.UTC(),
		EndTime:    m.EndTime.UTC(),
		Status:     domain.BookingStatus(m.Status),
		Notes:      derefString(m.Notes),
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:         b.ID.String(),
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime.UTC(),
		EndTime:    b.EndTime.UTC(),
		Status:     string(b.Status),
		Notes:      optString(b.Notes),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toDomainBookings(ms []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

func toDomainResource(m resourceModel) *domain.Resource {
	return &domain.Resource{
		ID:           m.ID,
		Name:         m.Name,
		Type:         domain.ResourceType(m.Type),
		Capacity:     m.Capacity,
		IsActive:     m.IsActive,
		Description:  derefString(m.Description),
		PricePerHour: m.PricePerHour,
		Metadata:     fromJSON(m.Metadata),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		Bookings:     toDomainBookings(m.Bookings),
	}
}

func toResourceModel(r *domain.Resource) (resourceModel, error) {
	meta, err := toJSON(r.Metadata)
	if err != nil {
		return resourceModel{}, err
	}
	return resourceModel{
		ID:           r.ID,
		Name:         r.Name,
		Type:         string(r.Type),
		Capacity:     r.Capacity,
		IsActive:     r.IsActive,
		Description:  optString(r.Description),
		PricePerHour: r.PricePerHour,
		Metadata:     meta,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func toDomainHistory(m historyModel) *domain.BookingHistory {
	var prev *domain.BookingStatus
	if m.PreviousStatus != nil {
		prev = domain.BookingStatus(*m.PreviousStatus).Ptr()
	}
	return &domain.BookingHistory{
		ID:             m.ID,
		BookingID:      domain.BookingID(m.BookingID),
		UserID:         m.UserID,
		ResourceID:     m.ResourceID,
		PreviousStatus: prev,
		NewStatus:      domain.BookingStatus(m.NewStatus),
		Reason:         derefString(m.Reason),
		Metadata:       fromJSON(m.Metadata),
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

func toHistoryModel(h *domain.BookingHistory) (historyModel, error) {
	meta, err := toJSON(h.Metadata)
	if err != nil {
		return historyModel{}, err
	}
	var prev *string
	if h.PreviousStatus != nil {
		prev = optString(string(*h.PreviousStatus))
	}
	return historyModel{
		ID:             h.ID,
		BookingID:      h.BookingID.String(),
		UserID:         h.UserID,
		ResourceID:     h.ResourceID,
		PreviousStatus: prev,
		NewStatus:      string(h.NewStatus),
		Reason:         optString(h.Reason),
		Metadata:       meta,
		CreatedAt:      h.CreatedAt,
	}, nil
}
