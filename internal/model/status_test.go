package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{Status("lost"), StatusPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestFinalStatesHaveNoMoves(t *testing.T) {
	for _, s := range Statuses {
		if s.Final() {
			assert.Empty(t, Transitions[s], s)
		} else {
			assert.NotEmpty(t, Transitions[s], s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("shipped")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, st)

	_, ok = ParseStatus("Shipped")
	assert.False(t, ok)
	assert.False(t, Status("").Valid())
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "Menunggu", Badge(StatusPending).Label)
	assert.Equal(t, "green", Badge(StatusDelivered).Color)
	assert.Equal(t, StatusBadge{Label: "Tidak diketahui", Color: "gray"}, Badge("refunded"))
	assert.Equal(t, Badge("refunded"), Badge(""))
}

func TestActions(t *testing.T) {
	a, ok := LookupAction(ActionApprove)
	require.True(t, ok)
	assert.Equal(t, StatusProcessing, a.Target)
	assert.Equal(t, "Pesanan dikonfirmasi", a.Notes)

	a, ok = LookupAction(ActionReject)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, a.Target)
	assert.Equal(t, "Pesanan ditolak", a.Notes)

	track, _ := LookupAction(ActionTrack)
	assert.False(t, track.Transitional())

	_, ok = LookupAction("refund")
	assert.False(t, ok)
}

func TestPageActionsMatchTransitions(t *testing.T) {
	for _, s := range Statuses {
		for _, name := range PageActions(s) {
			a, ok := LookupAction(name)
			require.True(t, ok, name)
			if a.Transitional() {
				assert.True(t, CanTransition(s, a.Target), "%s offered on %s", name, s)
			}
		}
	}
	assert.Nil(t, PageActions(StatusDelivered))
	assert.Equal(t, []string{ActionDelete}, PageActions(StatusCancelled))
}

func TestBulkActions(t *testing.T) {
	a, ok := BulkQuickAction(BulkCompleteAll)
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, a.Target)

	_, ok = BulkQuickAction(BulkDelete)
	assert.False(t, ok)

	for _, name := range []string{BulkApproveAll, BulkUpdateStatus, BulkDelete, BulkGenerateInvoices, BulkExport} {
		assert.True(t, KnownBulkAction(name), name)
	}
	assert.False(t, KnownBulkAction("archive"))
	assert.True(t, KnownUserBulkAction(UserBulkDeactivate))
	assert.False(t, KnownUserBulkAction(BulkApproveAll))
}

func TestComputeTotal(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("12500")},
		{Quantity: 3, Price: decimal.RequireFromString("4000.50")},
	}
	total := ComputeTotal(items, decimal.NewFromInt(15000), decimal.RequireFromString("4070.17"))
	assert.Equal(t, "56071.67", total.StringFixed(2))

	o := &Order{Items: items}
	assert.Equal(t, "37001.50", o.ItemsSubtotal().StringFixed(2))
}

func TestOrderHelpers(t *testing.T) {
	o := &Order{
		Status: StatusProcessing,
		History: []StatusRecord{
			{Status: StatusPending},
			{Status: StatusProcessing, Current: true},
		},
	}
	require.NotNil(t, o.CurrentRecord())
	assert.Equal(t, StatusProcessing, o.CurrentRecord().Status)
	assert.False(t, o.Deletable())

	o.Status = StatusCancelled
	assert.True(t, o.Deletable())
}

func TestPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("rahasia123"))
	assert.NotEqual(t, "rahasia123", u.PasswordHash)

	ok, err := u.PasswordMatches("rahasia123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = u.PasswordMatches("salah")
	require.NoError(t, err)
	assert.False(t, ok)
}
