package poolstate

import (
	"testing"

	"github.com/holiman/uint256"
)

func u64ptr(v uint64) *uint64 { return &v }
func f64ptr(v float64) *float64 { return &v }
func i32ptr(v int32) *int32 { return &v }

func TestPriceAInBClmmBelowMinLiquidityIsNone(t *testing.T) {
	p := &PoolState{
		Venue:     VenueCLMMA,
		SqrtPrice: uint256.NewInt(1 << 32),
		Liquidity: uint256.NewInt(1000), // below MinCLMMLiquidity
	}
	if _, ok := p.PriceAInB(); ok {
		t.Error("expected dust-liquidity CLMM pool to be unpriced")
	}
}

func TestPriceAInBAmmZeroReserveAIsNone(t *testing.T) {
	p := &PoolState{Venue: VenueAMMA, ReserveA: u64ptr(0), ReserveB: u64ptr(100)}
	if _, ok := p.PriceAInB(); ok {
		t.Error("expected zero reserve_a AMM pool to be unpriced")
	}
}

// TestCLOBNeverPricedFromReserves checks that a CLOB pool without bid/ask
// returns unpriced regardless of vault reserve values.
func TestCLOBNeverPricedFromReserves(t *testing.T) {
	p := &PoolState{
		Venue:    VenueCLOB,
		ReserveA: u64ptr(1_000_000),
		ReserveB: u64ptr(2_000_000),
	}
	if _, ok := p.PriceAInB(); ok {
		t.Error("CLOB pool without bid/ask must never be priced from vault reserves")
	}
}

func TestCLOBPricedFromBidAsk(t *testing.T) {
	p := &PoolState{Venue: VenueCLOB, BestBid: f64ptr(0.9), BestAsk: f64ptr(1.1)}
	price, ok := p.PriceAInB()
	if !ok || price != 1.0 {
		t.Errorf("CLOB mid price = %v, %v, want 1.0, true", price, ok)
	}
}

func TestStalenessMonotonic(t *testing.T) {
	p := &PoolState{LastUpdatedMs: 1000}
	if got := p.StalenessMs(500); got != 0 {
		t.Errorf("staleness before update should saturate at 0, got %d", got)
	}
	if got := p.StalenessMs(6000); got != 5000 {
		t.Errorf("staleness = %d, want 5000", got)
	}
}

func TestSamePairOrderInsensitive(t *testing.T) {
	a := &PoolState{CoinA: "SUI", CoinB: "USDC"}
	b := &PoolState{CoinA: "USDC", CoinB: "SUI"}
	if !a.SamePair(b) {
		t.Error("expected pools with reversed A/B to share a pair")
	}
}

func TestVenueSupportsFlashSwap(t *testing.T) {
	flashVenues := []Venue{VenueCLMMA, VenueCLMMB, VenueCLMMC, VenueCLOB}
	for _, v := range flashVenues {
		if !v.SupportsFlashSwap() {
			t.Errorf("%s should support flash swap", v)
		}
	}
	noFlash := []Venue{VenueAMMA, VenueAMMB}
	for _, v := range noFlash {
		if v.SupportsFlashSwap() {
			t.Errorf("%s should not support flash swap", v)
		}
	}
}
