package poolstate

import "sync"

// Cache is a concurrent object_id -> PoolState map. Point updates are
// linearizable per key; multiple writers may upsert different keys in
// parallel. Snapshot produces a sound-but-not-atomic view across keys: any
// pool observed is a valid past version of that pool, but the snapshot is
// not a single global instant.
type Cache struct {
	m sync.Map // object_id (string) -> *PoolState
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Upsert inserts or replaces the pool state for poolID, all-or-nothing.
func (c *Cache) Upsert(poolID string, state *PoolState) {
	c.m.Store(poolID, state)
}

// Get returns the current pool state for poolID, if present.
func (c *Cache) Get(poolID string) (*PoolState, bool) {
	v, ok := c.m.Load(poolID)
	if !ok {
		return nil, false
	}
	return v.(*PoolState), true
}

// Remove evicts poolID from the cache, returning the removed state if any.
func (c *Cache) Remove(poolID string) (*PoolState, bool) {
	v, ok := c.m.LoadAndDelete(poolID)
	if !ok {
		return nil, false
	}
	return v.(*PoolState), true
}

// Snapshot returns an independently-owned slice of every cached pool state.
func (c *Cache) Snapshot() []*PoolState {
	var out []*PoolState
	c.m.Range(func(_, v any) bool {
		out = append(out, v.(*PoolState))
		return true
	})
	return out
}

// Len returns the number of pools currently cached.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// PoolsForPair returns every pool whose (CoinA, CoinB) matches {coinA,
// coinB} in either order.
func (c *Cache) PoolsForPair(coinA, coinB string) []*PoolState {
	var out []*PoolState
	c.m.Range(func(_, v any) bool {
		p := v.(*PoolState)
		if (p.CoinA == coinA && p.CoinB == coinB) || (p.CoinA == coinB && p.CoinB == coinA) {
			out = append(out, p)
		}
		return true
	})
	return out
}
