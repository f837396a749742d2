package domain

import "time"

type ResourceType string

const (
	ResourceMeetingRoom    ResourceType = "meeting_room"
	ResourceConferenceHall ResourceType = "conference_hall"
	ResourceHotelRoom      ResourceType = "hotel_room"
	ResourceEventTicket    ResourceType = "event_ticket"
	ResourceWorkspace      ResourceType = "workspace"
	ResourceVehicle        ResourceType = "vehicle"
)

func ParseResourceType(s string) (ResourceType, error) {
	switch t := ResourceType(s); t {
	case ResourceMeetingRoom, ResourceConferenceHall, ResourceHotelRoom,
		ResourceEventTicket, ResourceWorkspace, ResourceVehicle:
		return t, nil
	}
	return "", ValidationError("Unknown resource type: " + s)
}

// Resource is a bookable entity. Bookings is the snapshot loaded alongside
// it and is only read, never mutated, by availability checks.
type Resource struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         ResourceType   `json:"type"`
	Capacity     int            `json:"capacity"`
	IsActive     bool           `json:"isActive"`
	Description  string         `json:"description,omitempty"`
	PricePerHour *float64       `json:"pricePerHour,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	Bookings []Booking `json:"-"`
}

const DefaultCapacity = 1

// NewResource returns an active resource.
func NewResource(id, name string, typ ResourceType, capacity int) *Resource {
	return &Resource{
		ID:       id,
		Name:     name,
		Type:     typ,
		Capacity: capacity,
		IsActive: true,
	}
}

// IsAvailable reports whether one more booking fits in slot.
func (r *Resource) IsAvailable(slot TimeSlot) bool {
	if !r.IsActive {
		return false
	}
	return r.countOverlappingActive(slot) < r.Capacity
}

// AvailableCapacity is never negative and is zero for inactive resources.
func (r *Resource) AvailableCapacity(slot TimeSlot) int {
	if !r.IsActive {
		return 0
	}
	return max(0, r.Capacity-r.countOverlappingActive(slot))
}

func (r *Resource) countOverlappingActive(slot TimeSlot) int {
	n := 0
	for i := range r.Bookings {
		b := &r.Bookings[i]
		if b.IsActive() && b.overlapsSlot(slot) {
			n++
		}
	}
	return n
}
