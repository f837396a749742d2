package resource

import (
	"time"

	"bluereserve/internal/domain"
)

type CreateResourceRequest struct {
	Name         string         `json:"name" validate:"required,max=255"`
	Type         string         `json:"type" validate:"required,oneof=meeting_room conference_hall hotel_room event_ticket workspace vehicle"`
	Capacity     *int           `json:"capacity" validate:"omitempty,min=0"`
	IsActive     *bool          `json:"isActive"`
	Description  string         `json:"description" validate:"max=2000"`
	PricePerHour *float64       `json:"pricePerHour" validate:"omitempty,gte=0"`
	Metadata     map[string]any `json:"metadata"`
}

// AvailableQuery is the parsed form of the available-resources query
// string. Page is nil for an unpaginated listing.
type AvailableQuery struct {
	StartTime time.Time
	EndTime   time.Time
	Type      string
	Page      *domain.ResourcePage
}

type AvailabilityResponse struct {
	ResourceID        string    `json:"resourceId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Available         bool      `json:"available"`
	AvailableCapacity int       `json:"availableCapacity"`
}
