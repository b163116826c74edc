package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/model"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PerPage: 15}, NewPagination(0, 0, 0))
	assert.Equal(t, Pagination{Page: 3, PerPage: 20}, NewPagination(3, 20, 15))
	assert.Equal(t, Pagination{Page: 1, PerPage: MaxPerPage}, NewPagination(-2, 5000, 15))
	assert.Equal(t, 40, Pagination{Page: 3, PerPage: 20}.Offset())
}

func TestPageMeta(t *testing.T) {
	m := NewPageMeta(31, Pagination{Page: 3, PerPage: 15})
	assert.Equal(t, 3, m.LastPage)
	assert.Equal(t, 31, m.From)
	assert.Equal(t, 31, m.To)

	empty := NewPageMeta(0, Pagination{Page: 1, PerPage: 15})
	assert.Equal(t, 1, empty.LastPage)
	assert.Zero(t, empty.From)
	assert.Zero(t, empty.To)

	beyond := NewPageMeta(10, Pagination{Page: 5, PerPage: 15})
	assert.Zero(t, beyond.From)
}

func TestNewPaginatedNeverNil(t *testing.T) {
	p := NewPaginated[int](nil, 0, Pagination{Page: 1, PerPage: 15}, nil)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
}

func TestOrderQueryFilter(t *testing.T) {
	f, err := OrderQuery{
		Page:        2,
		Search:      "  budi ",
		Status:      "shipped",
		DateFrom:    "2026-10-01",
		DateTo:      "2026-10-17",
		AmountRange: "50000-150000",
		IDs:         "3, 5",
	}.Filter(15)
	require.NoError(t, err)

	assert.Equal(t, Pagination{Page: 2, PerPage: 15}, f.Pagination)
	assert.Equal(t, "budi", f.Search)
	assert.Equal(t, []model.Status{model.StatusShipped}, f.Statuses)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2026, 10, 17, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *f.To)
	assert.Equal(t, "50000", f.MinAmount.String())
	assert.Equal(t, "150000", f.MaxAmount.String())
	assert.Equal(t, []int64{3, 5}, f.IDs)
}

func TestOrderQueryFilterErrors(t *testing.T) {
	_, err := OrderQuery{
		Status:      "lost",
		DateFrom:    "17/10/2026",
		AmountRange: "abc",
	}.Filter(15)
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "status")
	assert.Contains(t, fe, "date_from")
	assert.Contains(t, fe, "amount_range")
}

func TestDateRangeOrder(t *testing.T) {
	_, err := OrderQuery{DateFrom: "2026-10-17", DateTo: "2026-10-01"}.Filter(15)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "date_to")
}

func TestParseAmountRange(t *testing.T) {
	lo, hi, err := ParseAmountRange("100000-")
	require.NoError(t, err)
	assert.Equal(t, "100000", lo.String())
	assert.Nil(t, hi)

	lo, hi, err = ParseAmountRange("-25000.50")
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Equal(t, "25000.5", hi.String())

	_, _, err = ParseAmountRange("500-100")
	assert.Error(t, err)
	_, _, err = ParseAmountRange("500")
	assert.Error(t, err)
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("1,2,,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = ParseIDList("1,-4")
	assert.Error(t, err)
}

func TestUserQueryFilter(t *testing.T) {
	f, err := UserQuery{Role: "buyer", Active: "false"}.Filter(10)
	require.NoError(t, err)
	assert.Equal(t, model.RoleBuyer, f.Role)
	require.NotNil(t, f.Active)
	assert.False(t, *f.Active)

	_, err = UserQuery{Role: "root", Active: "maybe"}.Filter(10)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 2)
}

func TestReportRange(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	r, err := ReportQuery{}.Range(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, DefaultReportLimit, r.Limit)

	prev := r.Previous()
	assert.True(t, prev.To.Before(r.From))
	assert.Equal(t, r.To.Sub(r.From), prev.To.Sub(prev.From))
}

func TestNewOrderView(t *testing.T) {
	v := NewOrderView(&model.Order{Status: model.StatusDelivered})
	assert.NotNil(t, v.Actions)
	assert.Empty(t, v.Actions)
	assert.False(t, v.Deletable)
	assert.Equal(t, "Selesai", v.Badge.Label)

	v = NewOrderView(&model.Order{Status: model.StatusPending})
	assert.Equal(t, []string{model.ActionApprove, model.ActionReject}, v.Actions)
}
