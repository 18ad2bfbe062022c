package quote

import (
	"context"
	"sync"
	"time"
)

// DefaultInventoryTTL is how long a supplier's inventory snapshot stays
// fresh.
const DefaultInventoryTTL = 30 * time.Minute

// CachedInventory wraps an InventoryProvider with a per-supplier TTL cache.
// Entries are point-in-time snapshots; there is no invalidation beyond
// expiry.
type CachedInventory struct {
	provider InventoryProvider
	ttl      time.Duration

	mu     sync.RWMutex
	items  map[string][]InventoryItem
	expiry map[string]time.Time
}

// NewCachedInventory wraps provider with a snapshot cache. A non-positive
// ttl falls back to DefaultInventoryTTL.
func NewCachedInventory(provider InventoryProvider, ttl time.Duration) *CachedInventory {
	if ttl <= 0 {
		ttl = DefaultInventoryTTL
	}
	return &CachedInventory{
		provider: provider,
		ttl:      ttl,
		items:    make(map[string][]InventoryItem),
		expiry:   make(map[string]time.Time),
	}
}

// ListItems returns the cached snapshot when fresh, otherwise fetches and
// caches a new one. Fetch errors are not cached.
func (c *CachedInventory) ListItems(ctx context.Context, supplierID string) ([]InventoryItem, error) {
	c.mu.RLock()
	items, ok := c.items[supplierID]
	expiry := c.expiry[supplierID]
	c.mu.RUnlock()
	if ok && time.Now().Before(expiry) {
		return items, nil
	}

	items, err := c.provider.ListItems(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[supplierID] = items
	c.expiry[supplierID] = time.Now().Add(c.ttl)
	c.mu.Unlock()

	return items, nil
}

// Invalidate drops a supplier's snapshot, forcing a refresh on next read.
func (c *CachedInventory) Invalidate(supplierID string) {
	c.mu.Lock()
	delete(c.items, supplierID)
	delete(c.expiry, supplierID)
	c.mu.Unlock()
}
