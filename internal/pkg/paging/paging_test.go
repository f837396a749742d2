package paging

import (
	"testing"

	"bluereserve/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_NotRequested(t *testing.T) {
	p, err := Query{}.Bookings()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestQuery_Defaults(t *testing.T) {
	bp, err := Query{Page: "2"}.Bookings()
	require.NoError(t, err)
	require.NotNil(t, bp)
	assert.Equal(t, 2, bp.Page)
	assert.Equal(t, domain.DefaultLimit, bp.Limit)
	assert.Equal(t, domain.SortDesc, bp.Order)
	assert.Equal(t, domain.BookingSortCreatedAt, bp.SortBy)

	rp, err := Query{Limit: "5"}.Resources()
	require.NoError(t, err)
	assert.Equal(t, domain.SortAsc, rp.Order)
	assert.Equal(t, domain.ResourceSortName, rp.SortBy)
}

func TestQuery_Invalid(t *testing.T) {
	for _, q := range []Query{
		{Page: "abc"},
		{Page: "0"},
		{Page: "100000000000000001", Limit: "100"},
		{Limit: "500"},
		{SortOrder: "up"},
		{SortBy: "password"},
	} {
		_, err := q.Resources()
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", q)
	}
}
