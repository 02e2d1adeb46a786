package strategy

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTernarySearchSimpleConcave checks that the search converges on the
// peak of a simple concave (tent-shaped) profit function.
func TestTernarySearchSimpleConcave(t *testing.T) {
	simulate := func(x uint64) uint64 {
		var diff uint64
		if x > 50 {
			diff = x - 50
		} else {
			diff = 50 - x
		}
		sq := diff * diff
		if sq > 2500 {
			return 0
		}
		return 2500 - sq
	}

	optimal, profit := TernarySearch(0, 100, 1, simulate)
	assert.InDelta(t, 50, int(optimal), 2)
	assert.GreaterOrEqual(t, profit, uint64(2498))
}

func TestTernarySearchZeroRangeEvaluatesEndpoint(t *testing.T) {
	amount, profit := TernarySearch(42, 42, 1, func(x uint64) uint64 { return x })
	assert.Equal(t, uint64(42), amount)
	assert.Equal(t, uint64(42), profit)
}

func u64p(v uint64) *uint64 { return &v }

func TestMaxTradeAmountAMMUsesSmallerReserveThird(t *testing.T) {
	pool := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(9_000), ReserveB: u64p(30_000)}
	assert.Equal(t, uint64(3_000), maxTradeAmount(pool))
}

func TestMaxTradeAmountClampsToFloor(t *testing.T) {
	pool := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(100), ReserveB: u64p(100)}
	assert.Equal(t, uint64(1_000), maxTradeAmount(pool))
}

func TestMaxTradeAmountClampsToCeiling(t *testing.T) {
	pool := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(1_000_000_000_000), ReserveB: u64p(1_000_000_000_000)}
	assert.Equal(t, maxTradeMist, maxTradeAmount(pool))
}

func TestBuildLocalSimulatorAMMPairUsesXYModel(t *testing.T) {
	flash := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(10_000_000), ReserveB: u64p(20_000_000)}
	sell := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(10_000_000), ReserveB: u64p(22_000_000)}

	simulate, hi := BuildLocalSimulator(flash, sell)
	require.Greater(t, hi, uint64(0))
	assert.Greater(t, simulate(100_000), uint64(0))
}

func TestBuildLocalSimulatorCLMMPairUsesSqrtPriceModel(t *testing.T) {
	base := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	sp1 := new(uint256.Int).Div(new(uint256.Int).Mul(base, uint256.NewInt(95)), uint256.NewInt(100))
	sp2 := new(uint256.Int).Div(new(uint256.Int).Mul(base, uint256.NewInt(105)), uint256.NewInt(100))
	liq := uint256.NewInt(1_000_000_000_000)

	flash := &poolstate.PoolState{Venue: poolstate.VenueCLMMA, SqrtPrice: sp1, Liquidity: liq}
	sell := &poolstate.PoolState{Venue: poolstate.VenueCLMMB, SqrtPrice: sp2, Liquidity: liq}

	simulate, hi := BuildLocalSimulator(flash, sell)
	require.Greater(t, hi, uint64(0))
	assert.Greater(t, simulate(1_000_000_000), uint64(0))
}

func TestBuildLocalSimulatorMixedVenuesFallsBackToVirtualReserves(t *testing.T) {
	flash := &poolstate.PoolState{
		Venue:   poolstate.VenueCLOB,
		BestBid: f64p(0.95), BestAsk: f64p(0.96),
		ReserveA: u64p(5_000_000_000),
	}
	sell := &poolstate.PoolState{Venue: poolstate.VenueAMMB, ReserveA: u64p(10_000_000), ReserveB: u64p(10_500_000)}

	simulate, hi := BuildLocalSimulator(flash, sell)
	assert.Greater(t, hi, uint64(0))
	_ = simulate(100_000) // should not panic regardless of profitability
}

func f64p(v float64) *float64 { return &v }
