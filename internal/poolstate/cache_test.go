package poolstate

import (
	"fmt"
	"sync"
	"testing"
)

func makePool(id string, venue Venue, coinA, coinB string) *PoolState {
	return &PoolState{
		ObjectID: id,
		Venue:    venue,
		CoinA:    coinA,
		CoinB:    coinB,
	}
}

func TestUpsertAndGet(t *testing.T) {
	c := NewCache()
	c.Upsert("0xabc", makePool("0xabc", VenueCLMMA, "SUI", "USDC"))
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	got, ok := c.Get("0xabc")
	if !ok || got.ObjectID != "0xabc" {
		t.Fatalf("Get(0xabc) = %v, %v", got, ok)
	}
}

func TestPoolsForPair(t *testing.T) {
	c := NewCache()
	c.Upsert("0x1", makePool("0x1", VenueCLMMA, "SUI", "USDC"))
	c.Upsert("0x2", makePool("0x2", VenueCLMMB, "SUI", "USDC"))
	c.Upsert("0x3", makePool("0x3", VenueCLMMA, "SUI", "WETH"))

	pairs := c.PoolsForPair("SUI", "USDC")
	if len(pairs) != 2 {
		t.Fatalf("PoolsForPair(SUI,USDC) len = %d, want 2", len(pairs))
	}
	reversed := c.PoolsForPair("USDC", "SUI")
	if len(reversed) != 2 {
		t.Fatalf("PoolsForPair(USDC,SUI) len = %d, want 2", len(reversed))
	}
}

func TestConcurrentUpsertsDoNotDropUpdates(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	n := 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("0x%d", i)
			c.Upsert(id, makePool(id, VenueAMMB, "SUI", "USDC"))
		}(i)
	}
	wg.Wait()
	if c.Len() != n {
		t.Fatalf("Len() = %d, want %d", c.Len(), n)
	}
	if len(c.Snapshot()) != n {
		t.Fatalf("snapshot length = %d, want %d", len(c.Snapshot()), n)
	}
}

func TestRemove(t *testing.T) {
	c := NewCache()
	c.Upsert("0xabc", makePool("0xabc", VenueCLMMA, "SUI", "USDC"))
	removed, ok := c.Remove("0xabc")
	if !ok || removed.ObjectID != "0xabc" {
		t.Fatalf("Remove(0xabc) = %v, %v", removed, ok)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() after remove = %d, want 0", c.Len())
	}
}
