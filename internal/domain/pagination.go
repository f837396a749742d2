package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int for every accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder is case-insensitive; empty input yields def.
func ParseSortOrder(s string, def SortOrder) (SortOrder, error) {
	if s == "" {
		return def, nil
	}
	switch o := SortOrder(strings.ToUpper(s)); o {
	case SortAsc, SortDesc:
		return o, nil
	}
	return "", ValidationError("Sort order must be ASC or DESC")
}

// PageRequest is a validated page window.
type PageRequest struct {
	Page  int
	Limit int
	Order SortOrder
}

func NewPageRequest(page, limit int, order SortOrder) (PageRequest, error) {
	if page < 1 {
		return PageRequest{}, ValidationError("Page must be at least 1")
	}
	if page > MaxPage {
		return PageRequest{}, ValidationError("Page is too large")
	}
	if limit < 1 || limit > MaxLimit {
		return PageRequest{}, ValidationError("Limit must be between 1 and 100")
	}
	return PageRequest{Page: page, Limit: limit, Order: order}, nil
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

// Window clamps [offset, offset+limit) to n items. A page past the end
// yields an empty window.
func (p PageRequest) Window(n int) (from, to int) {
	if p.Limit < 1 || p.Page-1 > n/p.Limit {
		return n, n
	}
	from = max(0, min(p.Offset(), n))
	to = min(from+p.Limit, n)
	return from, to
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPageMeta(p PageRequest, total int64) PageMeta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

type Paged[T any] struct {
	Items      []T      `json:"data"`
	Pagination PageMeta `json:"pagination"`
}

type ResourceSortKey string

const (
	ResourceSortName         ResourceSortKey = "name"
	ResourceSortCapacity     ResourceSortKey = "capacity"
	ResourceSortPricePerHour ResourceSortKey = "pricePerHour"
	ResourceSortCreatedAt    ResourceSortKey = "createdAt"
)

func ParseResourceSortKey(s string) (ResourceSortKey, error) {
	if s == "" {
		return ResourceSortName, nil
	}
	switch k := ResourceSortKey(s); k {
	case ResourceSortName, ResourceSortCapacity, ResourceSortPricePerHour, ResourceSortCreatedAt:
		return k, nil
	}
	return "", ValidationError("Unknown sort field for resources: " + s)
}

// Column is the fixed database column for the key.
func (k ResourceSortKey) Column() string {
	switch k {
	case ResourceSortCapacity:
		return "capacity"
	case ResourceSortPricePerHour:
		return "price_per_hour"
	case ResourceSortCreatedAt:
		return "created_at"
	default:
		return "name"
	}
}

func (k ResourceSortKey) compare(a, b *Resource) int {
	switch k {
	case ResourceSortCapacity:
		return cmp.Compare(a.Capacity, b.Capacity)
	case ResourceSortPricePerHour:
		return compareOptional(a.PricePerHour, b.PricePerHour)
	case ResourceSortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return cmp.Compare(a.Name, b.Name)
	}
}

// SortResources sorts in place and is stable, ties keep their input order.
func SortResources(rs []Resource, key ResourceSortKey, order SortOrder) {
	slices.SortStableFunc(rs, func(a, b Resource) int {
		c := key.compare(&a, &b)
		if order == SortDesc {
			return -c
		}
		return c
	})
}

// Resources without a price sort before priced ones.
func compareOptional(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

type BookingSortKey string

const (
	BookingSortCreatedAt BookingSortKey = "createdAt"
	BookingSortStartTime BookingSortKey = "startTime"
	BookingSortEndTime   BookingSortKey = "endTime"
	BookingSortStatus    BookingSortKey = "status"
)

func ParseBookingSortKey(s string) (BookingSortKey, error) {
	if s == "" {
		return BookingSortCreatedAt, nil
	}
	switch k := BookingSortKey(s); k {
	case BookingSortCreatedAt, BookingSortStartTime, BookingSortEndTime, BookingSortStatus:
		return k, nil
	}
	return "", ValidationError("Unknown sort field for bookings: " + s)
}

func (k BookingSortKey) Column() string {
	switch k {
	case BookingSortStartTime:
		return "start_time"
	case BookingSortEndTime:
		return "end_time"
	case BookingSortStatus:
		return "status"
	default:
		return "created_at"
	}
}

type ResourcePage struct {
	PageRequest
	SortBy ResourceSortKey
}

type BookingPage struct {
	PageRequest
	SortBy BookingSortKey
}
