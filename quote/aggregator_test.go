package quote

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteserver/matching"
)

type fixedDistance struct {
	km  float64
	err error
}

func (f fixedDistance) DistanceKm(ctx context.Context, origin, dest string) (float64, error) {
	return f.km, f.err
}

func newTestAggregator(distance DistanceProvider) *Aggregator {
	matcher := matching.NewMatcher(matching.DefaultConfig(), matching.DefaultCompatibilityWeights(), nil)
	return NewAggregator(matcher, distance, DefaultScoreWeights(), nil)
}

func testSupplier() Supplier {
	return Supplier{ID: "s1", Name: "Distribuidora Bela Face", Phone: "5511999990000", CEP: "01310-100"}
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBuildQuoteCompleteRequest(t *testing.T) {
	agg := newTestAggregator(fixedDistance{km: 12})

	inventory := []InventoryItem{
		{ID: "p1", Name: "Botulift 100 UI", Category: "toxina", Price: price(800), Quantity: 5},
		{ID: "p2", Name: "Juvederm Ultra 1ml", Category: "preenchedor", Price: price(900), Quantity: 3},
	}
	items := []RequestedItem{
		{Name: "Botox 100UI", Quantity: 1},
		{Name: "Juvederm Ultra 1ml", Quantity: 2},
	}

	q := agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000")
	require.NotNil(t, q)
	assert.True(t, q.Complete)
	require.Len(t, q.LineItems, 2)
	assert.Equal(t, "Botulift 100 UI", q.LineItems[0].Name)
	assert.True(t, q.LineItems[0].Confidence.AtLeastMedium())
	// 1*800 + 2*900
	assert.True(t, q.TotalPrice.Equal(price(2600)), "got total %s", q.TotalPrice)
	assert.Equal(t, 12.0, q.DistanceKm)
	assert.Greater(t, q.Score, 0.0)
}

// A supplier fulfilling only part of the request yields an incomplete quote
// with one line item per satisfied request line.
func TestBuildQuotePartialRequest(t *testing.T) {
	agg := newTestAggregator(fixedDistance{km: 5})

	inventory := []InventoryItem{
		{ID: "p1", Name: "Juvederm Ultra 1ml", Price: price(900), Quantity: 3},
	}
	items := []RequestedItem{
		{Name: "Juvederm Ultra 1ml", Quantity: 1},
		{Name: "Botox 100UI", Quantity: 1},
	}

	q := agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000")
	require.NotNil(t, q)
	assert.False(t, q.Complete)
	assert.Len(t, q.LineItems, 1)
}

// Category-incompatible inventory never produces a quote.
func TestBuildQuoteNoMatch(t *testing.T) {
	agg := newTestAggregator(fixedDistance{km: 5})

	inventory := []InventoryItem{
		{ID: "p1", Name: "Juvederm Ultra 1ml", Price: price(900), Quantity: 3},
	}
	items := []RequestedItem{{Name: "Botox 100UI", Quantity: 1}}

	assert.Nil(t, agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000"))
}

// Items without enough stock are not candidates.
func TestBuildQuoteRespectsAvailability(t *testing.T) {
	agg := newTestAggregator(fixedDistance{km: 5})

	inventory := []InventoryItem{
		{ID: "p1", Name: "Botulift 100 UI", Price: price(800), Quantity: 1},
	}
	items := []RequestedItem{{Name: "Botulift 100 UI", Quantity: 2}}

	assert.Nil(t, agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000"))
}

func TestBuildQuoteDistanceSentinel(t *testing.T) {
	inventory := []InventoryItem{
		{ID: "p1", Name: "Botulift 100 UI", Price: price(800), Quantity: 5},
	}
	items := []RequestedItem{{Name: "Botulift 100 UI", Quantity: 1}}

	// Provider failure.
	agg := newTestAggregator(fixedDistance{err: errors.New("route not found")})
	q := agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000")
	require.NotNil(t, q)
	assert.Equal(t, SentinelDistanceKm, q.DistanceKm)

	// Non-finite result.
	agg = newTestAggregator(fixedDistance{km: math.Inf(1)})
	q = agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000")
	require.NotNil(t, q)
	assert.Equal(t, SentinelDistanceKm, q.DistanceKm)

	agg = newTestAggregator(fixedDistance{km: math.NaN()})
	q = agg.BuildQuote(context.Background(), testSupplier(), inventory, items, "04001-000")
	require.NotNil(t, q)
	assert.Equal(t, SentinelDistanceKm, q.DistanceKm)
}
