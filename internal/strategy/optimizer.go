package strategy

import (
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/holiman/uint256"
)

// maxTradeMist is a hard cap on any single trade size (100 SUI).
const maxTradeMist uint64 = 100_000_000_000

const defaultFeeBps uint64 = 30

// TernarySearch finds the amount_in in [lo, hi] maximizing simulate(amount_in)
// for a concave profit function, stopping once the search window narrows
// below precision. Safety-bounded at 100 iterations.
func TernarySearch(lo, hi, precision uint64, simulate func(uint64) uint64) (uint64, uint64) {
	bestAmount := lo
	var bestProfit uint64

	if hi <= lo {
		return lo, simulate(lo)
	}

	const maxIterations = 100
	iteration := 0

	for hi-lo > precision && iteration < maxIterations {
		iteration++

		third := (hi - lo) / 3
		m1 := lo + third
		m2 := hi - third

		p1 := simulate(m1)
		p2 := simulate(m2)

		if p1 > bestProfit {
			bestProfit = p1
			bestAmount = m1
		}
		if p2 > bestProfit {
			bestProfit = p2
			bestAmount = m2
		}

		if p1 < p2 {
			lo = m1
		} else {
			hi = m2
		}
	}

	mid := lo + (hi-lo)/2
	if pMid := simulate(mid); pMid > bestProfit {
		bestProfit = pMid
		bestAmount = mid
	}

	return bestAmount, bestProfit
}

// maxTradeAmount bounds the ternary search's upper end, conservative per
// venue kind: AMMs cap at a third of the smaller reserve, CLMMs at a
// liquidity-derived bound, always clamped to [1000, maxTradeMist].
func maxTradeAmount(pool *poolstate.PoolState) uint64 {
	var raw uint64

	switch {
	case pool.Venue.IsAMM():
		switch {
		case pool.ReserveA != nil && pool.ReserveB != nil:
			raw = min64(*pool.ReserveA, *pool.ReserveB) / 3
		case pool.ReserveA != nil:
			raw = *pool.ReserveA / 3
		case pool.ReserveB != nil:
			raw = *pool.ReserveB / 3
		default:
			raw = 10_000_000_000
		}

	case pool.Venue.IsCLMM():
		if pool.Liquidity != nil {
			shifted := new(uint256.Int).Rsh(pool.Liquidity, 32)
			if shifted.IsUint64() {
				raw = shifted.Uint64()
			} else {
				raw = maxTradeMist
			}
		} else {
			raw = 10_000_000_000
		}

	case pool.Venue == poolstate.VenueCLOB:
		if pool.ReserveA != nil {
			raw = *pool.ReserveA / 3
		} else {
			raw = 10_000_000_000
		}

	default:
		raw = 10_000_000_000
	}

	return clamp64(raw, 1_000, maxTradeMist)
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func clamp64(v, lo, hi uint64) uint64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// feeOrDefault returns the pool's configured fee, or 30 bps if unset.
func feeOrDefault(pool *poolstate.PoolState) uint64 {
	if pool.FeeBps != nil {
		return *pool.FeeBps
	}
	return defaultFeeBps
}

// BuildLocalSimulator returns a profit-at-amount closure and the search
// upper bound for a flash/sell pool pair, dispatching on venue kind: a
// constant-product model when both legs are AMM, a sqrt-price model when
// both are CLMM, and a price-ratio-derived virtual-reserve model for any
// mixed pairing, including CLOB legs, where no order book depth is known.
func BuildLocalSimulator(flashPool, sellPool *poolstate.PoolState) (func(uint64) uint64, uint64) {
	hi := min64(maxTradeAmount(flashPool), maxTradeAmount(sellPool))
	fee1 := feeOrDefault(flashPool)
	fee2 := feeOrDefault(sellPool)

	if flashPool.Venue.IsAMM() && sellPool.Venue.IsAMM() {
		ra1, rb1 := reserveOrZero(flashPool.ReserveA), reserveOrZero(flashPool.ReserveB)
		ra2, rb2 := reserveOrZero(sellPool.ReserveA), reserveOrZero(sellPool.ReserveB)
		return func(amount uint64) uint64 {
			return SimulateXYArb(ra1, rb1, ra2, rb2, fee1, fee2, amount)
		}, hi
	}

	if flashPool.Venue.IsCLMM() && sellPool.Venue.IsCLMM() {
		sp1, l1 := flashPool.SqrtPrice, flashPool.Liquidity
		sp2, l2 := sellPool.SqrtPrice, sellPool.Liquidity
		return func(amount uint64) uint64 {
			return SimulateCLMMArb(sp1, l1, sp2, l2, fee1, fee2, amount)
		}, hi
	}

	price1, ok1 := flashPool.PriceAInB()
	if !ok1 {
		price1 = 1.0
	}
	price2, ok2 := sellPool.PriceAInB()
	if !ok2 {
		price2 = 1.0
	}

	const virtualDepth = 1_000_000_000
	ra1 := uint64(virtualDepth)
	rb1 := uint64(float64(virtualDepth) * price1)
	ra2 := uint64(virtualDepth)
	rb2 := uint64(float64(virtualDepth) * price2)

	return func(amount uint64) uint64 {
		return SimulateXYArb(ra1, rb1, ra2, rb2, fee1, fee2, amount)
	}, hi
}

func reserveOrZero(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}
