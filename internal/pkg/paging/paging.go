package paging

import (
	"strconv"

	"bluereserve/internal/domain"

	"github.com/gin-gonic/gin"
)

// Query holds the raw pagination parameters of a list request.
type Query struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

func FromContext(c *gin.Context) Query {
	return Query{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// Requested reports whether the caller asked for a paginated response.
func (q Query) Requested() bool {
	return q.Page != "" || q.Limit != "" || q.SortBy != "" || q.SortOrder != ""
}

func (q Query) request(defOrder domain.SortOrder) (domain.PageRequest, error) {
	page, err := intOr(q.Page, domain.DefaultPage, "Page must be a number")
	if err != nil {
		return domain.PageRequest{}, err
	}
	limit, err := intOr(q.Limit, domain.DefaultLimit, "Limit must be a number")
	if err != nil {
		return domain.PageRequest{}, err
	}
	order, err := domain.ParseSortOrder(q.SortOrder, defOrder)
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.NewPageRequest(page, limit, order)
}

// Bookings defaults to newest first. Returns nil when no parameter is set.
func (q Query) Bookings() (*domain.BookingPage, error) {
	if !q.Requested() {
		return nil, nil
	}
	req, err := q.request(domain.SortDesc)
	if err != nil {
		return nil, err
	}
	key, err := domain.ParseBookingSortKey(q.SortBy)
	if err != nil {
		return nil, err
	}
	return &domain.BookingPage{PageRequest: req, SortBy: key}, nil
}

// Resources defaults to name ascending. Returns nil when no parameter is set.
func (q Query) Resources() (*domain.ResourcePage, error) {
	if !q.Requested() {
		return nil, nil
	}
	req, err := q.request(domain.SortAsc)
	if err != nil {
		return nil, err
	}
	key, err := domain.ParseResourceSortKey(q.SortBy)
	if err != nil {
		return nil, err
	}
	return &domain.ResourcePage{PageRequest: req, SortBy: key}, nil
}

func intOr(s string, def int, msg string) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ValidationError(msg)
	}
	return n, nil
}
