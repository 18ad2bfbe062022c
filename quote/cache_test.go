package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInventory struct {
	calls int
	items []InventoryItem
	err   error
}

func (c *countingInventory) ListItems(ctx context.Context, supplierID string) ([]InventoryItem, error) {
	c.calls++
	return c.items, c.err
}

func TestCachedInventoryServesSnapshot(t *testing.T) {
	upstream := &countingInventory{items: []InventoryItem{
		{ID: "p1", Name: "Botulift 100 UI", Price: decimal.NewFromInt(800), Quantity: 3},
	}}
	cache := NewCachedInventory(upstream, time.Minute)

	first, err := cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)
	second, err := cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedInventoryPerSupplierEntries(t *testing.T) {
	upstream := &countingInventory{}
	cache := NewCachedInventory(upstream, time.Minute)

	_, err := cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)
	_, err = cache.ListItems(context.Background(), "s2")
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.calls)
}

func TestCachedInventoryExpiry(t *testing.T) {
	upstream := &countingInventory{}
	cache := NewCachedInventory(upstream, 10*time.Millisecond)

	_, err := cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedInventoryErrorNotCached(t *testing.T) {
	upstream := &countingInventory{err: errors.New("store down")}
	cache := NewCachedInventory(upstream, time.Minute)

	_, err := cache.ListItems(context.Background(), "s1")
	require.Error(t, err)

	upstream.err = nil
	_, err = cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedInventoryInvalidate(t *testing.T) {
	upstream := &countingInventory{}
	cache := NewCachedInventory(upstream, time.Hour)

	_, err := cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)

	cache.Invalidate("s1")

	_, err = cache.ListItems(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}
