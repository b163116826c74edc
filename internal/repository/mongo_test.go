package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

func TestOrderFilterBSON(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	lo := decimal.NewFromInt(50000)
	q := orderFilterBSON(dto.OrderFilter{
		Search:    "ord-2026.10",
		Statuses:  []model.Status{model.StatusShipped},
		From:      &from,
		MinAmount: &lo,
		IDs:       []int64{4, 9},
	})

	or, ok := q["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 4)
	assert.Equal(t, bson.M{"$regex": `ord-2026\.10`, "$options": "i"}, or[0]["order_number"])

	assert.Equal(t, bson.M{"$in": []model.Status{model.StatusShipped}}, q["status"])
	assert.Equal(t, bson.M{"$gte": from}, q["created_at"])
	assert.Equal(t, bson.M{"$in": []int64{4, 9}}, q["_id"])

	amount := q["total_amount"].(bson.M)
	d, ok := amount["$gte"].(primitive.Decimal128)
	require.True(t, ok)
	assert.Equal(t, "50000", d.String())
	assert.NotContains(t, amount, "$lte")
}

func TestEmptyFiltersMatchEverything(t *testing.T) {
	assert.Empty(t, orderFilterBSON(dto.OrderFilter{}))
	assert.Empty(t, userFilterBSON(dto.UserFilter{}))
	assert.Empty(t, productFilterBSON(dto.ProductFilter{}))
}

func TestUserAndProductFilterBSON(t *testing.T) {
	active := false
	q := userFilterBSON(dto.UserFilter{Search: "budi", Role: model.RoleBuyer, Active: &active})
	assert.Equal(t, model.RoleBuyer, q["role"])
	assert.Equal(t, false, q["active"])
	assert.Len(t, q["$or"], 3)

	ceiling := 9
	p := productFilterBSON(dto.ProductFilter{ActiveOnly: true, MaxStock: &ceiling, CategoryID: 2})
	assert.Equal(t, true, p["active"])
	assert.Equal(t, bson.M{"$lte": 9}, p["stock"])
	assert.Equal(t, int64(2), p["category_id"])
}

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := newRegistry()
	type doc struct {
		Total decimal.Decimal `bson:"total"`
	}

	raw, err := bson.MarshalWithRegistry(reg, doc{Total: decimal.RequireFromString("159300.50")})
	require.NoError(t, err)
	assert.Equal(t, bson.TypeDecimal128, bson.Raw(raw).Lookup("total").Type)

	var out doc
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, out.Total.Equal(decimal.RequireFromString("159300.5")))

	// legacy documents stored amounts as doubles or strings
	for _, legacy := range []bson.M{{"total": 12.5}, {"total": "12.50"}, {"total": int32(12)}} {
		raw, err := bson.Marshal(legacy)
		require.NoError(t, err)
		var got doc
		require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &got))
		assert.True(t, got.Total.GreaterThanOrEqual(decimal.NewFromInt(12)), legacy)
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
